package timeline

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/effects"
	"github.com/ivlev/deckplay/internal/geometry"
)

// PlayMode is the coordinator's top-level state.
type PlayMode int

const (
	ModeIdle PlayMode = iota
	ModeAutoPlaying
	ModePaused
)

func (m PlayMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAutoPlaying:
		return "auto-playing"
	case ModePaused:
		return "paused"
	default:
		return "unknown"
	}
}

var (
	// ErrDanglingReference means an interaction's element no longer exists
	// on the slide. The step is skipped and reported, never fatal.
	ErrDanglingReference = errors.New("timeline: interaction references missing element")
	// ErrOutOfRange means a scrub index is outside the program.
	ErrOutOfRange = errors.New("timeline: index out of range")
	// ErrUnknownInteraction means a dispatched interaction ID is not in
	// the current slide's program.
	ErrUnknownInteraction = errors.New("timeline: unknown interaction")
	// ErrNoSlide means no slide is installed yet.
	ErrNoSlide = errors.New("timeline: no slide set")
)

// Coordinator sequences a slide's interactions into an ordered program:
// direct user triggers, autoplay progression, and manual scrubbing all
// funnel through it. It owns the effect engine for its slide.
type Coordinator struct {
	engine *effects.Engine
	cb     effects.Callbacks

	slide    *deck.Slide
	position int
	mode     PlayMode

	advanceDelay    float64
	pendingAdvance  bool
	nextAdvanceAt   time.Time
	currentEffectID string
	lastTick        time.Time

	logf func(format string, args ...any)
}

// NewCoordinator builds a coordinator and its effect engine. Render
// callbacks are forwarded unchanged; the coordinator additionally watches
// completions to drive autoplay.
func NewCoordinator(settings deck.Settings, cb effects.Callbacks) *Coordinator {
	c := &Coordinator{
		cb:           cb,
		position:     -1,
		advanceDelay: settings.AdvanceDelay,
		logf:         log.Printf,
	}
	c.engine = effects.NewEngine(effects.Callbacks{
		OnFrame: cb.OnFrame,
		OnComplete: func(id string) {
			c.onEffectComplete(id)
			if cb.OnComplete != nil {
				cb.OnComplete(id)
			}
		},
		OnCancelled: cb.OnCancelled,
	})
	return c
}

// Engine exposes the underlying effect engine so surfaces can install
// their measured viewport.
func (c *Coordinator) Engine() *effects.Engine {
	return c.engine
}

// SetSlide installs a new slide. All effect runtime state from the
// previous slide is discarded immediately and the program resets.
func (c *Coordinator) SetSlide(s *deck.Slide) {
	c.engine.SlideChanged()
	c.slide = s
	c.position = -1
	c.mode = ModeIdle
	c.pendingAdvance = false
	c.currentEffectID = ""
}

// Position is the index of the last fired interaction, -1 before start.
func (c *Coordinator) Position() int {
	return c.position
}

// Mode is the current play mode.
func (c *Coordinator) Mode() PlayMode {
	return c.mode
}

// Play starts or resumes autoplay progression. Resuming after the
// current effect already finished (completions while paused don't
// schedule an advance) picks the program back up from here.
func (c *Coordinator) Play(now time.Time) error {
	if c.slide == nil {
		return ErrNoSlide
	}
	c.mode = ModeAutoPlaying
	if c.position < 0 {
		c.advance(now)
		return nil
	}
	if c.engine.ActiveCount() == 0 && !c.pendingAdvance && c.position < len(c.slide.Interactions)-1 {
		c.pendingAdvance = true
		c.nextAdvanceAt = now.Add(time.Duration(c.advanceDelay * float64(time.Second)))
	}
	return nil
}

// Pause halts autoplay; the current effect keeps animating.
func (c *Coordinator) Pause() {
	if c.mode == ModeAutoPlaying {
		c.mode = ModePaused
	}
}

// DispatchTrigger fires an interaction in response to user input from the
// render boundary. A manual trigger during autoplay pauses it.
func (c *Coordinator) DispatchTrigger(interactionID string, source deck.TriggerKind, now time.Time) error {
	if c.slide == nil {
		return ErrNoSlide
	}

	idx := -1
	for i := range c.slide.Interactions {
		if c.slide.Interactions[i].ID == interactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownInteraction, interactionID)
	}

	if (source == deck.TriggerClick || source == deck.TriggerHover) && c.mode == ModeAutoPlaying {
		c.mode = ModePaused
	}

	return c.fire(idx, now)
}

// Scrub jumps to interaction k, rebuilding display state from the slide's
// static layout plus k's effect. Any other active effect is cancelled
// first, so scrubbing to the same index twice yields identical state.
func (c *Coordinator) Scrub(k int, now time.Time) error {
	if c.slide == nil {
		return ErrNoSlide
	}
	if k < 0 || k >= len(c.slide.Interactions) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, k, len(c.slide.Interactions))
	}

	if c.mode == ModeAutoPlaying {
		c.mode = ModePaused
	}
	c.engine.CancelAll(effects.CancelScrub, now)
	c.pendingAdvance = false

	err := c.fire(k, now)
	if errors.Is(err, ErrDanglingReference) {
		// Broken step: position moves, no effect is shown.
		c.position = k
		return nil
	}
	return err
}

// DismissCurrent ends the current effect by user request; for indefinite
// effects (quiz, media) this is their only completion path.
func (c *Coordinator) DismissCurrent(now time.Time) {
	if c.currentEffectID != "" {
		c.engine.Dismiss(c.currentEffectID, now)
	}
}

// Tick advances effect animation and, in autoplay, fires the next
// interaction once the configured delay after completion has elapsed.
func (c *Coordinator) Tick(now time.Time) {
	c.lastTick = now
	c.engine.Tick(now)

	if c.mode == ModeAutoPlaying && c.pendingAdvance && !now.Before(c.nextAdvanceAt) {
		c.pendingAdvance = false
		c.advance(now)
	}
}

// advance fires the next resolvable interaction, skipping dangling
// references. Running past the end stops autoplay.
func (c *Coordinator) advance(now time.Time) {
	for next := c.position + 1; next < len(c.slide.Interactions); next++ {
		err := c.fire(next, now)
		if err == nil {
			return
		}
		if errors.Is(err, ErrDanglingReference) {
			c.position = next
			continue
		}
		c.logf("[!] timeline: interaction %d failed: %v", next, err)
		c.position = next
	}
	c.mode = ModeIdle
}

// fire triggers one interaction's effect against resolved geometry.
func (c *Coordinator) fire(idx int, now time.Time) error {
	in := &c.slide.Interactions[idx]

	var target *geometry.FixedPosition
	if in.ElementID != "" {
		el, ok := c.slide.FindElement(in.ElementID)
		if !ok {
			c.logf("[!] timeline: skipping interaction %q: element %q not found", in.ID, in.ElementID)
			return fmt.Errorf("%w: %q", ErrDanglingReference, in.ElementID)
		}
		pos, err := el.Position.At(c.engine.Viewport().Breakpoint)
		if err != nil {
			return err
		}
		target = &pos
	}

	if err := c.engine.Trigger(in.Effect, target, now); err != nil {
		return err
	}
	c.position = idx
	c.currentEffectID = in.Effect.ID
	return nil
}

// onEffectComplete schedules the autoplay advance after the configured
// delay. Runs inside the engine's completion dispatch, after engine state
// has settled.
func (c *Coordinator) onEffectComplete(id string) {
	if id != c.currentEffectID || c.mode != ModeAutoPlaying {
		return
	}
	c.pendingAdvance = true
	c.nextAdvanceAt = c.lastTick.Add(time.Duration(c.advanceDelay * float64(time.Second)))
}
