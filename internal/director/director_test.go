package director

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/deckplay/internal/analyzer"
	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

func position(x, y, w, h float64) geometry.ResponsivePosition {
	p := geometry.FixedPosition{X: x, Y: y, Width: w, Height: h}
	rp, _ := geometry.NewResponsivePosition(map[geometry.Breakpoint]geometry.FixedPosition{
		geometry.BreakpointNarrow: p,
		geometry.BreakpointMedium: p,
		geometry.BreakpointWide:   p,
	})
	return rp
}

func TestGenerateProgram(t *testing.T) {
	slide := &deck.Slide{
		ID: "s1",
		Background: deck.Background{
			NaturalSize: geometry.Size{Width: 1280, Height: 720},
			Fit:         geometry.FitContain,
		},
		Elements: []deck.Element{
			// Deliberately out of reading order.
			{ID: "bottom", Kind: deck.ElementText, Position: position(50, 400, 300, 100), Visible: true},
			{ID: "top-right", Kind: deck.ElementHotspot, Position: position(600, 52, 150, 60), Visible: true},
			{ID: "top-left", Kind: deck.ElementText, Position: position(50, 50, 200, 60), Visible: true},
			{ID: "hidden", Kind: deck.ElementText, Position: position(0.5, 0.5, 10, 10), Visible: false},
		},
	}

	d := NewDirector()
	program, err := d.GenerateProgram(slide, geometry.BreakpointWide, 10.0)
	if err != nil {
		t.Fatalf("GenerateProgram failed: %v", err)
	}

	if len(program) != 3 {
		t.Fatalf("expected 3 interactions, got %d", len(program))
	}

	// Reading order: top row left-to-right, then the bottom element.
	wantOrder := []string{"top-left", "top-right", "bottom"}
	for i, id := range wantOrder {
		if program[i].ElementID != id {
			t.Errorf("position %d: expected element %s, got %s", i, id, program[i].ElementID)
		}
	}

	// Hotspots spotlight, others pan-zoom.
	if program[1].Effect.Kind != deck.EffectSpotlight {
		t.Errorf("hotspot should get a spotlight, got %s", program[1].Effect.Kind)
	}
	if program[0].Effect.Kind != deck.EffectPanZoom {
		t.Errorf("text element should get a pan-zoom, got %s", program[0].Effect.Kind)
	}

	for i, in := range program {
		if in.Effect.Duration < d.MinDwell || in.Effect.Duration > d.MaxDwell {
			t.Errorf("interaction %d: dwell %.2f outside [%.1f,%.1f]", i, in.Effect.Duration, d.MinDwell, d.MaxDwell)
		}
		t.Logf("interaction %d: element=%s kind=%s dwell=%.2fs", i, in.ElementID, in.Effect.Kind, in.Effect.Duration)
	}
}

func TestZoomToFitClamped(t *testing.T) {
	d := NewDirector()
	natural := geometry.Size{Width: 1280, Height: 720}

	tests := []struct {
		name string
		pos  geometry.FixedPosition
		want float64
	}{
		{"tiny target clamps to max", geometry.FixedPosition{X: 0, Y: 0, Width: 20, Height: 20}, 3.0},
		{"full-slide target stays at 1", geometry.FixedPosition{X: 0, Y: 0, Width: 1280, Height: 720}, 1.0},
		{"half-height target", geometry.FixedPosition{X: 0, Y: 0, Width: 400, Height: 360}, 1.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.zoomToFit(natural, tt.pos)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("zoomToFit = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestElementsFromRegionsResolveOntoSourceRegions(t *testing.T) {
	// US-Letter PDF page rendered at 1275x1650, exported into a 1280x720
	// contain box: the content box is narrower than the container and the
	// per-axis scale is well below 1.
	container := geometry.Size{Width: 1280, Height: 720}
	natural := geometry.Size{Width: 1275, Height: 1650}
	rendered := image.Rect(0, 0, 1275, 1650)

	box, err := geometry.ResolveLayout(container, natural, geometry.FitContain)
	if err != nil {
		t.Fatalf("ResolveLayout failed: %v", err)
	}

	regions := []analyzer.Region{
		{Rect: image.Rect(100, 200, 400, 500), Confidence: 0.9},
		// Flush against the rendered image's right edge.
		{Rect: image.Rect(1075, 100, 1275, 300), Confidence: 0.8},
	}

	elements := ElementsFromRegions("p1", regions, rendered, box)
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}

	sx := box.Width / float64(rendered.Dx())
	sy := box.Height / float64(rendered.Dy())
	const eps = 1e-9

	for i, el := range elements {
		pos, err := el.Position.At(geometry.BreakpointWide)
		if err != nil {
			t.Fatalf("element %d: %v", i, err)
		}
		rect := geometry.ResolveElementRect(box, pos)

		r := regions[i].Rect
		wantX := box.Left + float64(r.Min.X)*sx
		wantY := box.Top + float64(r.Min.Y)*sy
		if math.Abs(rect.X-wantX) > eps || math.Abs(rect.Y-wantY) > eps {
			t.Errorf("element %d: resolved origin (%.3f,%.3f), want (%.3f,%.3f)", i, rect.X, rect.Y, wantX, wantY)
		}
		if math.Abs(rect.Width-float64(r.Dx())*sx) > eps {
			t.Errorf("element %d: resolved width %.3f, want %.3f", i, rect.Width, float64(r.Dx())*sx)
		}

		// Resolved rects must stay inside the content box, right-edge
		// regions included.
		if rect.X < box.Left-eps || rect.X+rect.Width > box.Left+box.Width+eps {
			t.Errorf("element %d: rect [%.3f,%.3f] escapes content box [%.3f,%.3f]",
				i, rect.X, rect.X+rect.Width, box.Left, box.Left+box.Width)
		}
		t.Logf("element %d: region %v -> rect {%.1f %.1f %.1f %.1f}", i, r, rect.X, rect.Y, rect.Width, rect.Height)
	}
}

func TestFindLatestDeck(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "deck_2026-02-11_15-30-00.yaml"),
		filepath.Join(dir, "deck_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "deck_2026-02-13_01-00-00.yaml"),
	}

	for i, f := range files {
		os.WriteFile(f, []byte("test"), 0644)
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}

	latest, err := FindLatestDeck(dir)
	if err != nil {
		t.Fatalf("FindLatestDeck failed: %v", err)
	}

	if latest != files[len(files)-1] {
		t.Errorf("expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}
