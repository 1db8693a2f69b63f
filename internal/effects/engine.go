package effects

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

// Phase is the lifecycle state of one triggered effect instance.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScheduled
	PhaseAnimating
	PhaseCompleted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScheduled:
		return "scheduled"
	case PhaseAnimating:
		return "animating"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CancelReason explains why an effect was cancelled. Slide changes discard
// state immediately; every other reason animates back to baseline.
type CancelReason int

const (
	CancelNewTrigger CancelReason = iota
	CancelSlideChanged
	CancelDismissed
	CancelScrub
)

const (
	// revertDuration is how long a cancelled effect takes to animate back
	// to the pre-effect baseline.
	revertDuration = 0.3
	// rampInDuration is the appearance ramp for indefinite-duration
	// effects (text, media, quiz) that otherwise hold until dismissed.
	rampInDuration = 0.25
)

// ErrNotReady means the engine has no valid viewport yet; effects cannot
// resolve target geometry and must not be triggered.
var ErrNotReady = errors.New("effects: viewport not ready")

// Callbacks connect the engine to the render boundary. The boundary only
// reads the emitted parameters; it never reaches back into engine state.
type Callbacks struct {
	OnFrame     func(effectID string, params FrameParams)
	OnComplete  func(effectID string)
	OnCancelled func(effectID string)
}

// Viewport is the resolved rendering context the engine computes target
// geometry against. Both surfaces reduce their measurements to this.
type Viewport struct {
	Container  geometry.Size
	Natural    geometry.Size
	Fit        geometry.FitMode
	Breakpoint geometry.Breakpoint
}

// instance is the transient runtime state of one triggered effect. It is
// owned exclusively by the engine and discarded on completion or cancel.
type instance struct {
	effect    deck.Effect
	target    geometry.FixedPosition
	hasTarget bool
	phase     Phase
	startAt   time.Time
	easing    EasingFunc

	// End parameters, computed once at trigger time and recomputed only
	// when the viewport changes mid-animation.
	endTransform Transform
	endSpot      SpotlightFrame

	lastFrame FrameParams
}

// revert animates a cancelled effect's parameters back to baseline.
type revert struct {
	id      string
	from    FrameParams
	startAt time.Time
}

// Engine drives per-effect state machines against resolved geometry.
// It is tick-driven and single-threaded; all waiting is state, never a
// blocking call. Multiple engines may coexist in one process.
type Engine struct {
	cb       Callbacks
	viewport Viewport
	box      geometry.ContentBox
	ready    bool

	active     []*instance
	geometryID string // id of the active spotlight/pan_zoom, "" if none
	reverts    []*revert
}

// NewEngine creates an engine delivering output through cb.
func NewEngine(cb Callbacks) *Engine {
	return &Engine{cb: cb}
}

// SetViewport installs or replaces the rendering context. Active effects
// re-resolve their target geometry against the new layout instead of
// holding stale pixel values.
func (e *Engine) SetViewport(v Viewport) error {
	if !v.Breakpoint.Valid() {
		return fmt.Errorf("%w: %q", geometry.ErrUnknownBreakpoint, v.Breakpoint)
	}
	box, err := geometry.ResolveLayout(v.Container, v.Natural, v.Fit)
	if err != nil {
		return err
	}

	e.viewport = v
	e.box = box
	e.ready = true

	for _, inst := range e.active {
		e.resolveEnd(inst)
	}
	return nil
}

// Viewport returns the current rendering context.
func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// ContentBox returns the resolved background box for the current viewport.
func (e *Engine) ContentBox() (geometry.ContentBox, bool) {
	return e.box, e.ready
}

// Trigger schedules an effect. target is the triggering element's
// content-box-local position; explicit authored targets in the effect
// parameters take precedence over it. Triggering a geometry effect while
// another is active cancels the old one (with revert) first; re-triggering
// an already-active effect ID restarts it.
func (e *Engine) Trigger(eff deck.Effect, target *geometry.FixedPosition, now time.Time) error {
	if !e.ready {
		return ErrNotReady
	}

	if old := e.find(eff.ID); old != nil {
		e.cancel(old, CancelNewTrigger, now)
	}
	if eff.Kind.Geometry() && e.geometryID != "" {
		if old := e.find(e.geometryID); old != nil {
			e.cancel(old, CancelNewTrigger, now)
		}
	}

	inst := &instance{
		effect:  eff,
		phase:   PhaseScheduled,
		startAt: now.Add(time.Duration(eff.Delay * float64(time.Second))),
		easing:  EasingByName(eff.Easing),
	}
	if target != nil {
		inst.target = *target
		inst.hasTarget = true
	}
	e.resolveEnd(inst)

	e.active = append(e.active, inst)
	if eff.Kind.Geometry() {
		e.geometryID = eff.ID
	}
	return nil
}

// resolveEnd computes the effect's end parameters from the current
// viewport. The local target wins over the whole content box; explicit
// authored targets win over the local target.
func (e *Engine) resolveEnd(inst *instance) {
	local := inst.target
	if !inst.hasTarget {
		// Default to the full background.
		local = geometry.FixedPosition{X: 0, Y: 0, Width: e.box.Width, Height: e.box.Height}
	}

	switch inst.effect.Kind {
	case deck.EffectPanZoom:
		p := inst.effect.PanZoom
		if p == nil {
			p = &deck.PanZoomParams{Zoom: 1}
		}
		if p.Target != nil {
			local = *p.Target
		}
		rect := geometry.ResolveElementRect(e.box, local)
		inst.endTransform = panZoomTransform(e.viewport.Container, rect, p.Zoom)
	case deck.EffectSpotlight:
		p := inst.effect.Spotlight
		if p == nil {
			p = &deck.SpotlightParams{Shape: deck.SpotlightCircle, DimPercent: 70}
		}
		if p.Target != nil {
			local = *p.Target
		}
		rect := geometry.ResolveElementRect(e.box, local)
		inst.endSpot = spotlightEnd(p, rect)
	}
}

// Tick advances all running effects to the given time and emits one frame
// per animating effect. Ticks must arrive in time order. Completion
// callbacks fire after the engine's own state is settled, so they may
// trigger follow-up effects safely.
func (e *Engine) Tick(now time.Time) {
	e.tickReverts(now)

	var survivors []*instance
	var completed []string
	for _, inst := range e.active {
		if inst.phase == PhaseScheduled {
			if now.Before(inst.startAt) {
				survivors = append(survivors, inst)
				continue
			}
			inst.phase = PhaseAnimating
		}

		elapsed := now.Sub(inst.startAt).Seconds()
		done := false
		var progress float64
		if inst.effect.Indefinite() {
			progress = clamp01(elapsed / rampInDuration)
		} else {
			progress = clamp01(elapsed / inst.effect.Duration)
			done = progress >= 1
		}

		frame := e.frameAt(inst, inst.easing(progress))
		inst.lastFrame = frame
		if e.cb.OnFrame != nil {
			e.cb.OnFrame(inst.effect.ID, frame)
		}

		if done {
			inst.phase = PhaseCompleted
			if inst.effect.ID == e.geometryID {
				e.geometryID = ""
			}
			completed = append(completed, inst.effect.ID)
			continue
		}
		survivors = append(survivors, inst)
	}
	e.active = survivors

	if e.cb.OnComplete != nil {
		for _, id := range completed {
			e.cb.OnComplete(id)
		}
	}
}

// frameAt builds the render parameters for one eased progress value.
func (e *Engine) frameAt(inst *instance, eased float64) FrameParams {
	frame := FrameParams{
		Kind:      inst.effect.Kind,
		Progress:  eased,
		Transform: Identity,
	}

	switch inst.effect.Kind {
	case deck.EffectPanZoom:
		frame.Transform = lerpTransform(Identity, inst.endTransform, eased)
	case deck.EffectSpotlight:
		frame.Spotlight = spotlightAt(inst.endSpot, eased)
	default:
		frame.Opacity = eased
	}
	return frame
}

// tickReverts advances cancelled effects animating back to baseline.
func (e *Engine) tickReverts(now time.Time) {
	remaining := e.reverts[:0]
	for _, r := range e.reverts {
		t := clamp01(now.Sub(r.startAt).Seconds() / revertDuration)
		eased := easeOutCubic(t)

		frame := r.from
		frame.Reverting = true
		frame.Progress = r.from.Progress * (1 - eased)
		frame.Transform = lerpTransform(r.from.Transform, Identity, eased)
		if r.from.Spotlight != nil {
			end := *r.from.Spotlight
			frame.Spotlight = spotlightAt(SpotlightFrame{
				CenterX: end.CenterX, CenterY: end.CenterY,
				Radius: end.Radius, Rect: end.Rect, Shape: end.Shape, Dim: end.Dim,
			}, 1)
			frame.Spotlight.Dim = end.Dim * (1 - eased)
		}
		frame.Opacity = r.from.Opacity * (1 - eased)

		if e.cb.OnFrame != nil {
			e.cb.OnFrame(r.id, frame)
		}
		if t < 1 {
			remaining = append(remaining, r)
		}
	}
	e.reverts = remaining
}

// Dismiss ends an effect by external request. Indefinite-duration effects
// complete; timed effects still animating are cancelled with revert.
func (e *Engine) Dismiss(effectID string, now time.Time) {
	inst := e.find(effectID)
	if inst == nil {
		return
	}

	if inst.effect.Indefinite() && inst.phase == PhaseAnimating {
		e.remove(inst)
		inst.phase = PhaseCompleted
		if e.cb.OnComplete != nil {
			e.cb.OnComplete(effectID)
		}
		return
	}
	e.cancel(inst, CancelDismissed, now)
}

// CancelAll cancels every active effect for the given reason.
func (e *Engine) CancelAll(reason CancelReason, now time.Time) {
	for _, inst := range append([]*instance(nil), e.active...) {
		e.cancel(inst, reason, now)
	}
}

// SlideChanged discards all runtime state immediately: no revert
// animation, no residual reverts from earlier cancellations.
func (e *Engine) SlideChanged() {
	e.CancelAll(CancelSlideChanged, time.Time{})
	e.reverts = nil
}

// cancel removes the instance synchronously and, unless the slide
// changed, queues a revert-to-baseline animation. The runtime state is
// gone by the time this returns; only the revert parameters survive.
func (e *Engine) cancel(inst *instance, reason CancelReason, now time.Time) {
	wasAnimating := inst.phase == PhaseAnimating
	e.remove(inst)
	inst.phase = PhaseCancelled

	if reason != CancelSlideChanged && wasAnimating {
		e.reverts = append(e.reverts, &revert{
			id:      inst.effect.ID,
			from:    inst.lastFrame,
			startAt: now,
		})
	}

	if e.cb.OnCancelled != nil {
		e.cb.OnCancelled(inst.effect.ID)
	}
}

func (e *Engine) remove(inst *instance) {
	for i, other := range e.active {
		if other == inst {
			e.active = append(e.active[:i], e.active[i+1:]...)
			break
		}
	}
	if e.geometryID == inst.effect.ID {
		e.geometryID = ""
	}
}

func (e *Engine) find(effectID string) *instance {
	for _, inst := range e.active {
		if inst.effect.ID == effectID {
			return inst
		}
	}
	return nil
}

// PhaseOf reports the phase of an active effect. Completed and cancelled
// effects are no longer tracked.
func (e *Engine) PhaseOf(effectID string) (Phase, bool) {
	if inst := e.find(effectID); inst != nil {
		return inst.phase, true
	}
	return PhaseIdle, false
}

// ActiveGeometry returns the ID of the animating or scheduled geometry
// effect, if any.
func (e *Engine) ActiveGeometry() (string, bool) {
	return e.geometryID, e.geometryID != ""
}

// ActiveCount reports how many effects are scheduled or animating.
func (e *Engine) ActiveCount() int {
	return len(e.active)
}
