// Package surface defines the boundary between the geometry core and the
// two render surfaces (authoring and playback). A surface only supplies
// measurements; all coordinate math lives in the geometry package, so
// both surfaces see pixel-identical layout for identical inputs.
package surface

import (
	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/effects"
	"github.com/ivlev/deckplay/internal/geometry"
)

// Surface is a rendering context that can report its actual rendered
// container box. It must reflect reality, not a requested size.
type Surface interface {
	MeasureContainer() geometry.Size
}

// NaturalSizer resolves a background reference to its natural pixel
// dimensions. It must be available before first layout resolution;
// ViewportFor returns an error rather than guessing a size.
type NaturalSizer interface {
	NaturalSize(ref string) (geometry.Size, error)
}

// FixedSurface is a surface with a constant container size, used by
// tests and headless export.
type FixedSurface struct {
	Size geometry.Size
}

func (s FixedSurface) MeasureContainer() geometry.Size {
	return s.Size
}

// ViewportFor reduces a surface and a slide background to the resolver
// inputs. This is the only sanctioned path from a surface into the
// geometry core; surfaces never compute layout with their own shortcuts.
func ViewportFor(s Surface, sizer NaturalSizer, bg deck.Background) (effects.Viewport, error) {
	container := s.MeasureContainer()

	natural := bg.NaturalSize
	if !natural.Positive() {
		if sizer == nil {
			return effects.Viewport{}, geometry.ErrInvalidNaturalSize
		}
		measured, err := sizer.NaturalSize(bg.Source)
		if err != nil {
			return effects.Viewport{}, err
		}
		natural = measured
	}

	return effects.Viewport{
		Container:  container,
		Natural:    natural,
		Fit:        bg.Fit,
		Breakpoint: geometry.BreakpointForWidth(container.Width),
	}, nil
}
