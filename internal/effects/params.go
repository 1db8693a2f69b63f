package effects

import (
	"math"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/geometry"
)

// Transform is a single 2D transform applied to the slide's render layer.
// It is the only output of a pan-zoom effect; individual elements are
// never moved.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Identity is the baseline transform of an untouched slide layer.
var Identity = Transform{Scale: 1}

// SpotlightFrame is the overlay state for one spotlight tick: a dim layer
// with a single cut-out at the target.
type SpotlightFrame struct {
	CenterX float64
	CenterY float64
	Radius  float64
	Rect    geometry.Rect
	Shape   deck.SpotlightShape
	Dim     float64 // effective dim opacity, 0..1
}

// FrameParams is what the engine hands the render boundary on each tick
// of an animating effect. The boundary only reads these values; it never
// writes back into engine state.
type FrameParams struct {
	Kind      deck.EffectKind
	Progress  float64 // eased, 0..1
	Reverting bool
	Transform Transform
	Spotlight *SpotlightFrame
	Opacity   float64 // text/media/quiz ramp-in
}

// panZoomTransform computes the end transform that centers the target
// rect in the container at the requested zoom factor.
func panZoomTransform(container geometry.Size, target geometry.Rect, zoom float64) Transform {
	cx, cy := target.Center()
	return Transform{
		Scale:      zoom,
		TranslateX: container.Width/2 - cx*zoom,
		TranslateY: container.Height/2 - cy*zoom,
	}
}

// lerpTransform interpolates between two transforms component-wise.
func lerpTransform(a, b Transform, t float64) Transform {
	return Transform{
		Scale:      lerp(a.Scale, b.Scale, t),
		TranslateX: lerp(a.TranslateX, b.TranslateX, t),
		TranslateY: lerp(a.TranslateY, b.TranslateY, t),
	}
}

// spotlightEnd computes the fully-open spotlight frame for a resolved
// target rect. Radius 0 in the authored parameters derives the radius
// from the target's half-diagonal.
func spotlightEnd(params *deck.SpotlightParams, target geometry.Rect) SpotlightFrame {
	cx, cy := target.Center()
	radius := params.Radius
	if radius <= 0 {
		radius = math.Hypot(target.Width, target.Height) / 2
	}
	return SpotlightFrame{
		CenterX: cx,
		CenterY: cy,
		Radius:  radius,
		Rect:    target,
		Shape:   params.Shape,
		Dim:     params.DimPercent / 100,
	}
}

// spotlightAt scales the cut-out from zero to its end state.
func spotlightAt(end SpotlightFrame, t float64) *SpotlightFrame {
	frame := end
	frame.Radius = end.Radius * t
	frame.Rect = geometry.Rect{
		X:      end.CenterX - end.Rect.Width*t/2,
		Y:      end.CenterY - end.Rect.Height*t/2,
		Width:  end.Rect.Width * t,
		Height: end.Rect.Height * t,
	}
	return &frame
}
