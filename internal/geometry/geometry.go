package geometry

import "fmt"

// Breakpoint selects which of the three authored position variants applies.
// Positions are discrete per breakpoint, never interpolated between them.
type Breakpoint string

const (
	BreakpointNarrow Breakpoint = "narrow"
	BreakpointMedium Breakpoint = "medium"
	BreakpointWide   Breakpoint = "wide"
)

// Breakpoints lists all breakpoints in ascending width order.
var Breakpoints = []Breakpoint{BreakpointNarrow, BreakpointMedium, BreakpointWide}

// Width thresholds for breakpoint selection (CSS pixels)
const (
	narrowMaxWidth = 640
	mediumMaxWidth = 1024
)

// BreakpointForWidth maps a container width to its breakpoint.
func BreakpointForWidth(width float64) Breakpoint {
	switch {
	case width <= narrowMaxWidth:
		return BreakpointNarrow
	case width <= mediumMaxWidth:
		return BreakpointMedium
	default:
		return BreakpointWide
	}
}

// Valid reports whether b is one of the three known breakpoints.
func (b Breakpoint) Valid() bool {
	return b == BreakpointNarrow || b == BreakpointMedium || b == BreakpointWide
}

// FitMode governs how a background's natural aspect ratio maps into a
// container of a different aspect ratio.
type FitMode string

const (
	// FitCover scales the background to fully cover the container,
	// center-cropping the overflow. The resolved content box may exceed
	// the container symmetrically; clipping is the consuming surface's
	// concern, not the resolver's.
	FitCover FitMode = "cover"
	// FitContain scales the background to fit entirely inside the
	// container, letterboxing on one axis.
	FitContain FitMode = "contain"
	// FitFill stretches the background to the container exactly,
	// ignoring aspect ratio.
	FitFill FitMode = "fill"
)

// Valid reports whether f is a known fit mode.
func (f FitMode) Valid() bool {
	return f == FitCover || f == FitContain || f == FitFill
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Positive reports whether both dimensions are strictly positive.
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned rectangle in container-absolute pixels.
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"w"`
	Height float64 `yaml:"h"`
}

// Center returns the rectangle's center point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// ContentBox is the background's rendered rectangle inside the container
// after fit-mode scaling. Left/Top may be negative under FitCover.
type ContentBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
	// Scale is the applied natural-to-rendered factor (ScaleX under
	// FitFill, where the two axes differ).
	Scale  float64
	ScaleY float64
}

// FixedPosition is an element's placement for one breakpoint, in pixels
// relative to the resolved content box (not the raw container).
type FixedPosition struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"w"`
	Height float64 `yaml:"h"`
}

// Valid reports whether the position has positive extents.
func (p FixedPosition) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// ResponsivePosition holds one FixedPosition per breakpoint. All three
// must be present; use NewResponsivePosition to enforce that up front.
type ResponsivePosition struct {
	Narrow FixedPosition `yaml:"narrow"`
	Medium FixedPosition `yaml:"medium"`
	Wide   FixedPosition `yaml:"wide"`
}

// NewResponsivePosition builds a ResponsivePosition from a breakpoint map,
// rejecting incomplete or degenerate input at construction time.
func NewResponsivePosition(positions map[Breakpoint]FixedPosition) (ResponsivePosition, error) {
	var rp ResponsivePosition
	for _, bp := range Breakpoints {
		pos, ok := positions[bp]
		if !ok {
			return rp, fmt.Errorf("%w: missing %s", ErrIncompletePosition, bp)
		}
		if !pos.Valid() {
			return rp, fmt.Errorf("%w: %s has non-positive extents", ErrIncompletePosition, bp)
		}
	}
	rp.Narrow = positions[BreakpointNarrow]
	rp.Medium = positions[BreakpointMedium]
	rp.Wide = positions[BreakpointWide]
	return rp, nil
}

// At returns the position for the given breakpoint.
func (rp ResponsivePosition) At(bp Breakpoint) (FixedPosition, error) {
	switch bp {
	case BreakpointNarrow:
		return rp.Narrow, nil
	case BreakpointMedium:
		return rp.Medium, nil
	case BreakpointWide:
		return rp.Wide, nil
	default:
		return FixedPosition{}, fmt.Errorf("%w: %q", ErrUnknownBreakpoint, bp)
	}
}

// Validate checks that every breakpoint variant has positive extents.
// Deserialized positions bypass NewResponsivePosition, so loaders call
// this before first use.
func (rp ResponsivePosition) Validate() error {
	for _, bp := range Breakpoints {
		pos, _ := rp.At(bp)
		if !pos.Valid() {
			return fmt.Errorf("%w: %s has non-positive extents", ErrIncompletePosition, bp)
		}
	}
	return nil
}
