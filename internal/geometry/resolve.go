package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidNaturalSize means the background's natural dimensions are
	// zero or negative; callers must not render elements against it.
	ErrInvalidNaturalSize = errors.New("geometry: invalid background natural size")
	// ErrInvalidContainer means the measured container is degenerate.
	ErrInvalidContainer = errors.New("geometry: invalid container size")
	// ErrUnknownFitMode means the fit mode is not cover/contain/fill.
	ErrUnknownFitMode = errors.New("geometry: unknown fit mode")
	// ErrUnknownBreakpoint means the breakpoint is not narrow/medium/wide.
	ErrUnknownBreakpoint = errors.New("geometry: unknown breakpoint")
	// ErrIncompletePosition means a ResponsivePosition does not carry a
	// valid variant for every breakpoint.
	ErrIncompletePosition = errors.New("geometry: incomplete responsive position")
)

// ResolveLayout computes the background's rendered rectangle inside the
// container for the given fit mode.
//
// The function is pure: identical inputs always produce identical output,
// regardless of which surface (authoring or playback) is calling. Both
// surfaces must reduce their own measurement down to these inputs and
// never compute geometry on the side.
func ResolveLayout(container, natural Size, fit FitMode) (ContentBox, error) {
	if !natural.Positive() {
		return ContentBox{}, fmt.Errorf("%w: %.0fx%.0f", ErrInvalidNaturalSize, natural.Width, natural.Height)
	}
	if !container.Positive() {
		return ContentBox{}, fmt.Errorf("%w: %.0fx%.0f", ErrInvalidContainer, container.Width, container.Height)
	}

	switch fit {
	case FitCover:
		scale := math.Max(container.Width/natural.Width, container.Height/natural.Height)
		w := natural.Width * scale
		h := natural.Height * scale
		return ContentBox{
			Left:   (container.Width - w) / 2,
			Top:    (container.Height - h) / 2,
			Width:  w,
			Height: h,
			Scale:  scale,
			ScaleY: scale,
		}, nil
	case FitContain:
		scale := math.Min(container.Width/natural.Width, container.Height/natural.Height)
		w := natural.Width * scale
		h := natural.Height * scale
		return ContentBox{
			Left:   (container.Width - w) / 2,
			Top:    (container.Height - h) / 2,
			Width:  w,
			Height: h,
			Scale:  scale,
			ScaleY: scale,
		}, nil
	case FitFill:
		return ContentBox{
			Left:   0,
			Top:    0,
			Width:  container.Width,
			Height: container.Height,
			Scale:  container.Width / natural.Width,
			ScaleY: container.Height / natural.Height,
		}, nil
	default:
		return ContentBox{}, fmt.Errorf("%w: %q", ErrUnknownFitMode, fit)
	}
}

// ResolveElementRect maps an element's content-box-local position into
// container-absolute pixels.
func ResolveElementRect(box ContentBox, pos FixedPosition) Rect {
	return Rect{
		X:      box.Left + pos.X,
		Y:      box.Top + pos.Y,
		Width:  pos.Width,
		Height: pos.Height,
	}
}

// ResolveResponsiveRect resolves the breakpoint variant of rp and maps it
// into container-absolute pixels in one step.
func ResolveResponsiveRect(box ContentBox, rp ResponsivePosition, bp Breakpoint) (Rect, error) {
	pos, err := rp.At(bp)
	if err != nil {
		return Rect{}, err
	}
	return ResolveElementRect(box, pos), nil
}
