package director

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ivlev/deckplay/internal/analyzer"
	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

// Director generates a timeline program from a slide's authored elements:
// one interaction per element, in reading order, with dwell times spread
// over a total duration. Authoring surfaces use it to bootstrap a slide's
// interaction list.
type Director struct {
	MinDwell float64 // minimum seconds per element
	MaxDwell float64 // maximum seconds per element
	Padding  float64 // share of the viewport a zoom target may occupy
	MaxZoom  float64
}

// NewDirector creates a Director with default pacing.
func NewDirector() *Director {
	return &Director{
		MinDwell: 1.0,
		MaxDwell: 3.0,
		Padding:  0.9,
		MaxZoom:  3.0,
	}
}

// GenerateProgram builds interactions for every visible element of the
// slide, at the given breakpoint, paced to totalDuration. Hotspots get a
// spotlight; everything else gets a pan-zoom that frames the element.
func (d *Director) GenerateProgram(s *deck.Slide, bp geometry.Breakpoint, totalDuration float64) ([]deck.Interaction, error) {
	ordered, err := d.sortElements(s, bp)
	if err != nil {
		return nil, err
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("slide %q has no visible elements", s.ID)
	}

	dwell := d.dwellTime(totalDuration, len(ordered))

	interactions := make([]deck.Interaction, 0, len(ordered))
	for i, el := range ordered {
		pos, err := el.Position.At(bp)
		if err != nil {
			return nil, err
		}

		eff := deck.Effect{
			ID:       fmt.Sprintf("%s-fx-%d", s.ID, i+1),
			Duration: dwell,
			Easing:   "ease-in-out",
		}
		if el.Kind == deck.ElementHotspot {
			eff.Kind = deck.EffectSpotlight
			eff.Spotlight = &deck.SpotlightParams{
				Shape:      deck.SpotlightCircle,
				DimPercent: 70,
			}
		} else {
			eff.Kind = deck.EffectPanZoom
			eff.PanZoom = &deck.PanZoomParams{
				Zoom:   d.zoomToFit(s.Background.NaturalSize, pos),
				Smooth: true,
			}
		}

		interactions = append(interactions, deck.Interaction{
			ID:        fmt.Sprintf("%s-auto-%d", s.ID, i+1),
			ElementID: el.ID,
			Trigger:   deck.TriggerTimeline,
			Effect:    eff,
		})
	}

	return interactions, nil
}

// ElementsFromRegions converts analyzer regions, detected on a rendered
// page image, into hotspot elements. Positions are authored in the
// content-box pixel space of the resolved layout, the same space the
// element resolver reads them back in; a region at the rendered image's
// right edge lands at the content box's right edge, never past it.
func ElementsFromRegions(idPrefix string, regions []analyzer.Region, rendered image.Rectangle, box geometry.ContentBox) []deck.Element {
	if rendered.Dx() <= 0 || rendered.Dy() <= 0 {
		return nil
	}
	sx := box.Width / float64(rendered.Dx())
	sy := box.Height / float64(rendered.Dy())

	elements := make([]deck.Element, 0, len(regions))
	for i, r := range regions {
		fixed := geometry.FixedPosition{
			X:      float64(r.Rect.Min.X-rendered.Min.X) * sx,
			Y:      float64(r.Rect.Min.Y-rendered.Min.Y) * sy,
			Width:  float64(r.Rect.Dx()) * sx,
			Height: float64(r.Rect.Dy()) * sy,
		}
		pos, err := geometry.NewResponsivePosition(map[geometry.Breakpoint]geometry.FixedPosition{
			geometry.BreakpointNarrow: fixed,
			geometry.BreakpointMedium: fixed,
			geometry.BreakpointWide:   fixed,
		})
		if err != nil {
			continue
		}
		elements = append(elements, deck.Element{
			ID:       fmt.Sprintf("%s-el%d", idPrefix, i+1),
			Kind:     deck.ElementHotspot,
			Position: pos,
			Visible:  true,
		})
	}
	return elements
}

// sortElements orders visible elements in Western reading order:
// top-to-bottom, then left-to-right within a row.
func (d *Director) sortElements(s *deck.Slide, bp geometry.Breakpoint) ([]*deck.Element, error) {
	var ordered []*deck.Element
	for i := range s.Elements {
		if s.Elements[i].Visible {
			ordered = append(ordered, &s.Elements[i])
		}
	}

	positions := make(map[string]geometry.FixedPosition, len(ordered))
	for _, el := range ordered {
		pos, err := el.Position.At(bp)
		if err != nil {
			return nil, err
		}
		positions[el.ID] = pos
	}

	// 20px threshold for "same row"
	const rowThreshold = 20.0

	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := positions[ordered[i].ID], positions[ordered[j].ID]
		if math.Abs(pi.Y-pj.Y) > rowThreshold {
			return pi.Y < pj.Y
		}
		return pi.X < pj.X
	})

	return ordered, nil
}

// dwellTime spreads the total duration across elements, clamped to the
// configured pacing bounds.
func (d *Director) dwellTime(totalDuration float64, count int) float64 {
	if totalDuration <= 0 || count == 0 {
		return d.MinDwell
	}

	dwell := totalDuration / float64(count)
	if dwell < d.MinDwell {
		dwell = d.MinDwell
	}
	if dwell > d.MaxDwell {
		dwell = d.MaxDwell
	}
	return dwell
}

// zoomToFit picks the zoom factor that frames the target inside the
// padded background, clamped to [1, MaxZoom].
func (d *Director) zoomToFit(natural geometry.Size, pos geometry.FixedPosition) float64 {
	if !pos.Valid() || !natural.Positive() {
		return 1.0
	}

	zoom := math.Min(
		natural.Width*d.Padding/pos.Width,
		natural.Height*d.Padding/pos.Height,
	)

	if zoom < 1.0 {
		zoom = 1.0
	}
	if zoom > d.MaxZoom {
		zoom = d.MaxZoom
	}
	return zoom
}
