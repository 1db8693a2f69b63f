package surface

import (
	"fmt"
	"testing"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

type stubSizer struct {
	sizes map[string]geometry.Size
}

func (s stubSizer) NaturalSize(ref string) (geometry.Size, error) {
	size, ok := s.sizes[ref]
	if !ok {
		return geometry.Size{}, fmt.Errorf("unknown background %q", ref)
	}
	return size, nil
}

func TestViewportForDeclaredSize(t *testing.T) {
	vp, err := ViewportFor(
		FixedSurface{Size: geometry.Size{Width: 800, Height: 450}},
		nil,
		deck.Background{
			NaturalSize: geometry.Size{Width: 1600, Height: 900},
			Fit:         geometry.FitContain,
		},
	)
	if err != nil {
		t.Fatalf("ViewportFor failed: %v", err)
	}

	if vp.Natural.Width != 1600 || vp.Natural.Height != 900 {
		t.Errorf("declared natural size should pass through, got %+v", vp.Natural)
	}
	if vp.Breakpoint != geometry.BreakpointMedium {
		t.Errorf("800px container should resolve to medium, got %s", vp.Breakpoint)
	}
}

func TestViewportForMeasuresUnknownSize(t *testing.T) {
	sizer := stubSizer{sizes: map[string]geometry.Size{
		"intro.pdf#1": {Width: 1280, Height: 720},
	}}

	vp, err := ViewportFor(
		FixedSurface{Size: geometry.Size{Width: 1920, Height: 1080}},
		sizer,
		deck.Background{Source: "intro.pdf#1", Fit: geometry.FitCover},
	)
	if err != nil {
		t.Fatalf("ViewportFor failed: %v", err)
	}

	if vp.Natural.Width != 1280 || vp.Natural.Height != 720 {
		t.Errorf("natural size should come from the sizer, got %+v", vp.Natural)
	}
	if vp.Breakpoint != geometry.BreakpointWide {
		t.Errorf("1920px container should resolve to wide, got %s", vp.Breakpoint)
	}
}

func TestViewportForNotReady(t *testing.T) {
	_, err := ViewportFor(
		FixedSurface{Size: geometry.Size{Width: 800, Height: 450}},
		nil,
		deck.Background{Fit: geometry.FitContain},
	)
	if err == nil {
		t.Fatal("unmeasured background with no sizer should error")
	}
}
