package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/effects"
	"github.com/ivlev/deckplay/internal/geometry"
	"github.com/ivlev/deckplay/internal/surface"
)

// ExportOptions configures headless frame export.
type ExportOptions struct {
	OutDir    string
	Container geometry.Size
	Workers   int
}

// ExportSlideFrames renders one settled preview frame per interaction of
// a slide (plus a static frame) and writes them as PNGs. Interactions run
// in parallel, each against its own effect engine, so export also
// exercises the multiple-players-per-process guarantee.
func ExportSlideFrames(s *deck.Slide, background image.Image, opts ExportOptions) ([]string, error) {
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, err
	}

	comp, err := NewCompositor(background, opts.Container, s.Background.Fit)
	if err != nil {
		return nil, fmt.Errorf("slide %q: %w", s.ID, err)
	}

	bp := geometry.BreakpointForWidth(opts.Container.Width)
	elements, err := ResolveElements(s, comp.ContentBox(), bp)
	if err != nil {
		return nil, fmt.Errorf("slide %q: %w", s.ID, err)
	}

	paths := make([]string, len(s.Interactions)+1)

	// Static frame first: the slide at rest, no effect.
	staticPath := filepath.Join(opts.OutDir, fmt.Sprintf("%s_static.png", s.ID))
	if err := writeFrame(comp, elements, nil, staticPath); err != nil {
		return nil, err
	}
	paths[0] = staticPath

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i := range s.Interactions {
		g.Go(func() error {
			in := &s.Interactions[i]

			params, err := settledParams(s, in, comp.MeasureContainer(), bp)
			if err != nil {
				// Broken references degrade to a skipped frame, matching
				// playback semantics.
				log.Printf("[!] export: skipping interaction %q: %v", in.ID, err)
				return nil
			}

			path := filepath.Join(opts.OutDir, fmt.Sprintf("%s_i%02d_%s.png", s.ID, i, in.ID))
			if err := writeFrame(comp, elements, params, path); err != nil {
				return err
			}
			paths[i+1] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// settledParams runs one interaction's effect to its end state on a
// private engine and returns the final frame parameters.
func settledParams(s *deck.Slide, in *deck.Interaction, container geometry.Size, bp geometry.Breakpoint) (*effects.FrameParams, error) {
	var last *effects.FrameParams
	engine := effects.NewEngine(effects.Callbacks{
		OnFrame: func(_ string, p effects.FrameParams) { last = &p },
	})

	vp, err := surface.ViewportFor(surface.FixedSurface{Size: container}, nil, s.Background)
	if err != nil {
		return nil, err
	}
	if err := engine.SetViewport(vp); err != nil {
		return nil, err
	}

	var target *geometry.FixedPosition
	if in.ElementID != "" {
		el, ok := s.FindElement(in.ElementID)
		if !ok {
			return nil, fmt.Errorf("element %q not found", in.ElementID)
		}
		pos, err := el.Position.At(bp)
		if err != nil {
			return nil, err
		}
		target = &pos
	}

	start := time.Unix(0, 0)
	if err := engine.Trigger(in.Effect, target, start); err != nil {
		return nil, err
	}

	settle := in.Effect.Duration + in.Effect.Delay
	if in.Effect.Indefinite() {
		settle = in.Effect.Delay + 1 // past the ramp-in
	}
	engine.Tick(start.Add(time.Duration(settle * float64(time.Second))))

	return last, nil
}

func writeFrame(comp *Compositor, elements []ResolvedElement, params *effects.FrameParams, path string) error {
	frame := comp.Frame(elements, params)
	defer comp.Release(frame)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, frame)
}
