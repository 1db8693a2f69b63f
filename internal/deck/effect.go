package deck

import "github.com/ivlev/deckplay/internal/geometry"

// EffectKind classifies a triggered visual behavior.
type EffectKind string

const (
	EffectSpotlight  EffectKind = "spotlight"
	EffectPanZoom    EffectKind = "pan_zoom"
	EffectTransition EffectKind = "transition"
	EffectAnimate    EffectKind = "animate"
	EffectShowText   EffectKind = "show_text"
	EffectPlayMedia  EffectKind = "play_media"
	EffectPlayVideo  EffectKind = "play_video"
	EffectPlayAudio  EffectKind = "play_audio"
	EffectQuiz       EffectKind = "quiz"
)

// Valid reports whether k is a known effect kind.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectSpotlight, EffectPanZoom, EffectTransition, EffectAnimate,
		EffectShowText, EffectPlayMedia, EffectPlayVideo, EffectPlayAudio, EffectQuiz:
		return true
	}
	return false
}

// Geometry reports whether the effect manipulates slide geometry.
// At most one geometry effect may animate per slide at a time.
func (k EffectKind) Geometry() bool {
	return k == EffectSpotlight || k == EffectPanZoom
}

// SpotlightShape selects the cut-out shape of a spotlight overlay.
type SpotlightShape string

const (
	SpotlightCircle SpotlightShape = "circle"
	SpotlightRect   SpotlightShape = "rect"
)

// SpotlightParams configures a dim overlay with one cut-out region.
// Target overrides the triggering element's position when set; it is
// authored in content-box-local pixels. Radius 0 derives the radius from
// the target rectangle.
type SpotlightParams struct {
	Target     *geometry.FixedPosition `yaml:"target,omitempty"`
	Shape      SpotlightShape          `yaml:"shape"`
	Radius     float64                 `yaml:"radius,omitempty"`
	DimPercent float64                 `yaml:"dim_percent"` // 0..100
}

// PanZoomParams configures a whole-layer zoom toward a target rectangle.
type PanZoomParams struct {
	Target *geometry.FixedPosition `yaml:"target,omitempty"`
	Zoom   float64                 `yaml:"zoom"` // > 0, 1.0 = no zoom
	Smooth bool                    `yaml:"smooth"`
}

// TransitionParams configures a slide-to-slide transition.
type TransitionParams struct {
	Style     string `yaml:"style"`     // fade, slide, dissolve
	Direction string `yaml:"direction"` // left, right, up, down
}

// QuizParams configures a quiz prompt. Quizzes have no automatic
// completion; they end only on explicit dismissal.
type QuizParams struct {
	Question string   `yaml:"question"`
	Choices  []string `yaml:"choices"`
	Answer   int      `yaml:"answer"`
}

// Effect is the authored description of a timed visual behavior.
// Duration is in seconds; 0 means the effect waits indefinitely for an
// external dismissal.
type Effect struct {
	ID       string     `yaml:"id"`
	Kind     EffectKind `yaml:"kind"`
	Duration float64    `yaml:"duration"`
	Delay    float64    `yaml:"delay,omitempty"`
	Easing   string     `yaml:"easing,omitempty"` // linear, ease-in-out

	Spotlight  *SpotlightParams  `yaml:"spotlight,omitempty"`
	PanZoom    *PanZoomParams    `yaml:"pan_zoom,omitempty"`
	Transition *TransitionParams `yaml:"transition,omitempty"`
	Quiz       *QuizParams       `yaml:"quiz,omitempty"`
}

// Indefinite reports whether the effect has no automatic completion.
func (e Effect) Indefinite() bool {
	return e.Duration <= 0
}
