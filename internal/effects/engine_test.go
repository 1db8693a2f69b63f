package effects

import (
	"errors"
	"testing"
	"time"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

type recorder struct {
	frames    map[string][]FrameParams
	completed []string
	cancelled []string
}

func newRecorder() *recorder {
	return &recorder{frames: make(map[string][]FrameParams)}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnFrame:     func(id string, p FrameParams) { r.frames[id] = append(r.frames[id], p) },
		OnComplete:  func(id string) { r.completed = append(r.completed, id) },
		OnCancelled: func(id string) { r.cancelled = append(r.cancelled, id) },
	}
}

func (r *recorder) lastFrame(id string) (FrameParams, bool) {
	fs := r.frames[id]
	if len(fs) == 0 {
		return FrameParams{}, false
	}
	return fs[len(fs)-1], true
}

func testViewport() Viewport {
	return Viewport{
		Container:  geometry.Size{Width: 800, Height: 450},
		Natural:    geometry.Size{Width: 1600, Height: 900},
		Fit:        geometry.FitContain,
		Breakpoint: geometry.BreakpointMedium,
	}
}

func spotlightEffect(id string, duration float64) deck.Effect {
	return deck.Effect{
		ID:       id,
		Kind:     deck.EffectSpotlight,
		Duration: duration,
		Easing:   EasingLinear,
		Spotlight: &deck.SpotlightParams{
			Shape:      deck.SpotlightCircle,
			DimPercent: 80,
		},
	}
}

func panZoomEffect(id string, duration, zoom float64) deck.Effect {
	return deck.Effect{
		ID:       id,
		Kind:     deck.EffectPanZoom,
		Duration: duration,
		Easing:   EasingLinear,
		PanZoom:  &deck.PanZoomParams{Zoom: zoom, Smooth: true},
	}
}

func TestTriggerRequiresViewport(t *testing.T) {
	e := NewEngine(Callbacks{})
	err := e.Trigger(spotlightEffect("fx", 1), nil, time.Now())
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestPanZoomTransformCentersTarget(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	// Content box fills the container exactly (same aspect ratio, scale 0.5).
	target := geometry.FixedPosition{X: 100, Y: 50, Width: 200, Height: 100}
	start := time.Unix(0, 0)
	if err := e.Trigger(panZoomEffect("zoom", 1.0, 2.0), &target, start); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	e.Tick(start.Add(time.Second))

	frame, ok := rec.lastFrame("zoom")
	if !ok {
		t.Fatal("no frames emitted")
	}

	// Target center (200,100) at zoom 2: translate = 400-200*2, 225-100*2.
	want := Transform{Scale: 2, TranslateX: 0, TranslateY: 25}
	got := frame.Transform
	if !almostEqual(got.Scale, want.Scale) || !almostEqual(got.TranslateX, want.TranslateX) || !almostEqual(got.TranslateY, want.TranslateY) {
		t.Errorf("end transform mismatch: got %+v, want %+v", got, want)
	}

	if len(rec.completed) != 1 || rec.completed[0] != "zoom" {
		t.Errorf("expected completion of zoom, got %v", rec.completed)
	}
}

func TestGeometryEffectExclusivity(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	start := time.Unix(0, 0)
	target := geometry.FixedPosition{X: 100, Y: 100, Width: 100, Height: 100}

	if err := e.Trigger(spotlightEffect("spot", 2), &target, start); err != nil {
		t.Fatalf("Trigger spotlight failed: %v", err)
	}
	e.Tick(start.Add(500 * time.Millisecond))

	if phase, _ := e.PhaseOf("spot"); phase != PhaseAnimating {
		t.Fatalf("spotlight should be animating, got %s", phase)
	}

	// Second geometry effect cancels the first before it is scheduled.
	if err := e.Trigger(panZoomEffect("zoom", 1, 1.5), &target, start.Add(600*time.Millisecond)); err != nil {
		t.Fatalf("Trigger pan_zoom failed: %v", err)
	}

	if len(rec.cancelled) != 1 || rec.cancelled[0] != "spot" {
		t.Fatalf("spotlight should be cancelled before pan_zoom starts, got %v", rec.cancelled)
	}
	if _, tracked := e.PhaseOf("spot"); tracked {
		t.Error("cancelled runtime state must be discarded synchronously")
	}
	if id, ok := e.ActiveGeometry(); !ok || id != "zoom" {
		t.Errorf("pan_zoom should own the geometry slot, got %q", id)
	}

	// The cancelled spotlight animates back to baseline rather than snapping.
	e.Tick(start.Add(700 * time.Millisecond))
	frame, ok := rec.lastFrame("spot")
	if !ok || !frame.Reverting {
		t.Errorf("expected revert frames for cancelled spotlight, got %+v", frame)
	}
}

func TestNonGeometryEffectsRunConcurrently(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	start := time.Unix(0, 0)
	target := geometry.FixedPosition{X: 10, Y: 10, Width: 50, Height: 50}

	text := deck.Effect{ID: "caption", Kind: deck.EffectShowText, Duration: 5}
	if err := e.Trigger(text, &target, start); err != nil {
		t.Fatalf("Trigger text failed: %v", err)
	}
	if err := e.Trigger(spotlightEffect("spot", 2), &target, start); err != nil {
		t.Fatalf("Trigger spotlight failed: %v", err)
	}

	e.Tick(start.Add(time.Second))

	if len(rec.cancelled) != 0 {
		t.Errorf("text effect should coexist with spotlight, cancelled: %v", rec.cancelled)
	}
	if e.ActiveCount() != 2 {
		t.Errorf("expected 2 active effects, got %d", e.ActiveCount())
	}
}

func TestIndefiniteEffectWaitsForDismiss(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	quiz := deck.Effect{
		ID:   "quiz",
		Kind: deck.EffectQuiz,
		Quiz: &deck.QuizParams{Question: "?", Choices: []string{"a", "b"}, Answer: 0},
	}
	start := time.Unix(0, 0)
	if err := e.Trigger(quiz, nil, start); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	// No automatic completion, even well past any ramp.
	e.Tick(start.Add(time.Minute))
	if len(rec.completed) != 0 {
		t.Fatalf("indefinite effect completed on its own: %v", rec.completed)
	}

	frame, _ := rec.lastFrame("quiz")
	if !almostEqual(frame.Opacity, 1) {
		t.Errorf("indefinite effect should hold full opacity, got %.3f", frame.Opacity)
	}

	e.Dismiss("quiz", start.Add(2*time.Minute))
	if len(rec.completed) != 1 || rec.completed[0] != "quiz" {
		t.Errorf("dismissal should complete the effect, got %v", rec.completed)
	}
}

func TestSlideChangeDiscardsImmediately(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	start := time.Unix(0, 0)
	target := geometry.FixedPosition{X: 10, Y: 10, Width: 50, Height: 50}
	if err := e.Trigger(spotlightEffect("spot", 2), &target, start); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	e.Tick(start.Add(time.Second))

	e.SlideChanged()

	if len(rec.cancelled) != 1 {
		t.Fatalf("expected 1 cancellation, got %v", rec.cancelled)
	}
	if e.ActiveCount() != 0 {
		t.Error("slide change must leave no runtime state")
	}

	// No revert frames after a slide change: state is discarded, not animated.
	before := len(rec.frames["spot"])
	e.Tick(start.Add(2 * time.Second))
	if len(rec.frames["spot"]) != before {
		t.Error("slide change should not animate back to baseline")
	}
}

func TestResizeReresolvesMidAnimation(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	vp := Viewport{
		Container:  geometry.Size{Width: 800, Height: 450},
		Natural:    geometry.Size{Width: 900, Height: 900},
		Fit:        geometry.FitContain,
		Breakpoint: geometry.BreakpointMedium,
	}
	if err := e.SetViewport(vp); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	start := time.Unix(0, 0)
	target := geometry.FixedPosition{X: 100, Y: 50, Width: 100, Height: 100}
	if err := e.Trigger(spotlightEffect("spot", 2), &target, start); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	e.Tick(start.Add(time.Second))
	before, _ := rec.lastFrame("spot")

	// Letterboxed at left 175: center x = 175 + 150.
	if !almostEqual(before.Spotlight.CenterX, 325) {
		t.Fatalf("expected initial center x 325, got %.1f", before.Spotlight.CenterX)
	}

	// Grow the container; the letterbox offset moves, so the spotlight
	// center must move with it instead of holding stale pixels.
	vp.Container = geometry.Size{Width: 1600, Height: 900}
	if err := e.SetViewport(vp); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}
	e.Tick(start.Add(1100 * time.Millisecond))
	after, _ := rec.lastFrame("spot")

	// Content box now 900x900 at left (1600-900)/2 = 350: center x = 500.
	if !almostEqual(after.Spotlight.CenterX, 500) || !almostEqual(after.Spotlight.CenterY, 100) {
		t.Errorf("expected re-resolved center (500,100), got (%.1f,%.1f)",
			after.Spotlight.CenterX, after.Spotlight.CenterY)
	}
}

func TestScheduledDelayHonored(t *testing.T) {
	rec := newRecorder()
	e := NewEngine(rec.callbacks())
	if err := e.SetViewport(testViewport()); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	eff := spotlightEffect("spot", 1)
	eff.Delay = 0.5
	start := time.Unix(0, 0)
	target := geometry.FixedPosition{X: 10, Y: 10, Width: 50, Height: 50}
	if err := e.Trigger(eff, &target, start); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	e.Tick(start.Add(100 * time.Millisecond))
	if phase, _ := e.PhaseOf("spot"); phase != PhaseScheduled {
		t.Errorf("effect should still be scheduled during delay, got %s", phase)
	}
	if len(rec.frames["spot"]) != 0 {
		t.Error("no frames should be emitted before the delay elapses")
	}

	e.Tick(start.Add(600 * time.Millisecond))
	if phase, _ := e.PhaseOf("spot"); phase != PhaseAnimating {
		t.Errorf("effect should be animating after delay, got %s", phase)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
