package deck

import (
	"path/filepath"
	"strings"
	"testing"

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

func sampleDeck() *Deck {
	return &Deck{
		Version: "1.0",
		ID:      "demo",
		Title:   "Demo deck",
		Slides: []Slide{
			{
				ID: "s1",
				Background: Background{
					Source:      "slide_1.png",
					NaturalSize: geometry.Size{Width: 1600, Height: 900},
					Fit:         geometry.FitContain,
				},
				Elements: []Element{
					{ID: "hs1", Kind: ElementHotspot, Position: position(100, 50, 40, 40), Visible: true},
					{ID: "txt1", Kind: ElementText, Position: position(200, 300, 400, 80), Visible: true,
						Text: &TextContent{Text: "Welcome"}},
				},
				Interactions: []Interaction{
					{
						ID:        "i1",
						ElementID: "hs1",
						Trigger:   TriggerClick,
						Effect: Effect{
							ID:       "fx1",
							Kind:     EffectSpotlight,
							Duration: 1.5,
							Spotlight: &SpotlightParams{
								Shape:      SpotlightCircle,
								DimPercent: 70,
							},
						},
					},
				},
			},
		},
		Settings: Settings{AutoAdvance: true, AdvanceDelay: 2.0, AllowNavigation: true},
	}
}

func TestValidate(t *testing.T) {
	if err := sampleDeck().Validate(); err != nil {
		t.Fatalf("valid deck rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Deck)
		wantSub string
	}{
		{
			name:    "duplicate element id",
			mutate:  func(d *Deck) { d.Slides[0].Elements[1].ID = "hs1" },
			wantSub: "duplicate element id",
		},
		{
			name:    "unknown fit mode",
			mutate:  func(d *Deck) { d.Slides[0].Background.Fit = "stretch" },
			wantSub: "unknown fit mode",
		},
		{
			name:    "unknown effect kind",
			mutate:  func(d *Deck) { d.Slides[0].Interactions[0].Effect.Kind = "sparkle" },
			wantSub: "unknown effect kind",
		},
		{
			name:    "negative duration",
			mutate:  func(d *Deck) { d.Slides[0].Interactions[0].Effect.Duration = -1 },
			wantSub: "negative duration",
		},
		{
			name: "dim percent out of range",
			mutate: func(d *Deck) {
				d.Slides[0].Interactions[0].Effect.Spotlight.DimPercent = 140
			},
			wantSub: "dim_percent",
		},
		{
			name: "incomplete responsive position",
			mutate: func(d *Deck) {
				d.Slides[0].Elements[0].Position.Medium = geometry.FixedPosition{}
			},
			wantSub: "incomplete responsive position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDeck()
			tt.mutate(d)
			err := d.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected error containing %q, got: %v", tt.wantSub, err)
			}
		})
	}
}

func TestValidatePanZoom(t *testing.T) {
	d := sampleDeck()
	d.Slides[0].Interactions = append(d.Slides[0].Interactions, Interaction{
		ID:        "i2",
		ElementID: "txt1",
		Trigger:   TriggerTimeline,
		Effect: Effect{
			ID:       "fx2",
			Kind:     EffectPanZoom,
			Duration: 2,
			PanZoom:  &PanZoomParams{Zoom: 0},
		},
	})

	if err := d.Validate(); err == nil || !strings.Contains(err.Error(), "zoom factor") {
		t.Errorf("zero zoom should be rejected, got %v", err)
	}
}

func TestWarningsDanglingReference(t *testing.T) {
	d := sampleDeck()
	d.Slides[0].Interactions[0].ElementID = "gone"

	// Dangling references are not fatal; playback skips them.
	if err := d.Validate(); err != nil {
		t.Fatalf("dangling reference should not fail validation: %v", err)
	}

	warnings := d.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if !strings.Contains(warnings[0], "gone") {
		t.Errorf("warning should name the missing element: %s", warnings[0])
	}
}

func TestDeckWriteRead(t *testing.T) {
	d := sampleDeck()

	tmpFile := filepath.Join(t.TempDir(), "deck.yaml")
	if err := WriteDeck(d, tmpFile); err != nil {
		t.Fatalf("WriteDeck failed: %v", err)
	}

	loaded, err := ReadDeck(tmpFile)
	if err != nil {
		t.Fatalf("ReadDeck failed: %v", err)
	}

	if loaded.ID != d.ID || len(loaded.Slides) != len(d.Slides) {
		t.Errorf("deck identity mismatch after reload: %s/%d", loaded.ID, len(loaded.Slides))
	}

	s := loaded.Slides[0]
	if len(s.Elements) != 2 || len(s.Interactions) != 1 {
		t.Fatalf("slide content mismatch: %d elements, %d interactions", len(s.Elements), len(s.Interactions))
	}
	if s.Elements[0].Position.Wide.X != 100 {
		t.Errorf("position lost in round trip: %+v", s.Elements[0].Position.Wide)
	}
	if s.Interactions[0].Effect.Spotlight == nil {
		t.Error("spotlight parameters lost in round trip")
	}
}
