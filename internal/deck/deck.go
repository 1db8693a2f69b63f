package deck

import "github.com/ivlev/deckplay/internal/geometry"

// ElementKind classifies an authored element.
type ElementKind string

const (
	ElementHotspot ElementKind = "hotspot"
	ElementText    ElementKind = "text"
	ElementMedia   ElementKind = "media"
	ElementShape   ElementKind = "shape"
)

// Valid reports whether k is a known element kind.
func (k ElementKind) Valid() bool {
	switch k {
	case ElementHotspot, ElementText, ElementMedia, ElementShape:
		return true
	}
	return false
}

// TriggerKind is the condition that fires an interaction.
type TriggerKind string

const (
	TriggerClick    TriggerKind = "click"
	TriggerHover    TriggerKind = "hover"
	TriggerTimeline TriggerKind = "timeline"
	TriggerAuto     TriggerKind = "auto"
)

// Valid reports whether t is a known trigger kind.
func (t TriggerKind) Valid() bool {
	switch t {
	case TriggerClick, TriggerHover, TriggerTimeline, TriggerAuto:
		return true
	}
	return false
}

// TextContent is the payload of a text element.
type TextContent struct {
	Text     string  `yaml:"text"`
	FontSize float64 `yaml:"font_size,omitempty"`
}

// MediaContent is the payload of a media element. Source is an opaque
// reference resolved by the consuming surface; "qr:<data>" renders an
// inline QR code.
type MediaContent struct {
	Source   string `yaml:"source"`
	Kind     string `yaml:"kind"` // image, video, audio, qr
	AutoPlay bool   `yaml:"autoplay,omitempty"`
	Loop     bool   `yaml:"loop,omitempty"`
}

// ShapeContent is the payload of a shape element.
type ShapeContent struct {
	Shape string `yaml:"shape"` // rect, ellipse, line
	Fill  string `yaml:"fill,omitempty"`
}

// Element is one positioned item on a slide. It is owned exclusively by
// its slide; interactions reference it by ID only.
type Element struct {
	ID       string                      `yaml:"id"`
	Kind     ElementKind                 `yaml:"kind"`
	Position geometry.ResponsivePosition `yaml:"position"`
	Visible  bool                        `yaml:"visible"`
	Style    map[string]string           `yaml:"style,omitempty"`

	Text  *TextContent  `yaml:"text,omitempty"`
	Media *MediaContent `yaml:"media,omitempty"`
	Shape *ShapeContent `yaml:"shape,omitempty"`
}

// Background describes the slide's backdrop and how it maps into a
// container. NaturalSize must be known before layout resolution; loaders
// that cannot measure it leave it zero and the resolver reports not-ready.
type Background struct {
	Source      string           `yaml:"source"`
	NaturalSize geometry.Size    `yaml:"natural_size"`
	Fit         geometry.FitMode `yaml:"fit"`
}

// Slide is a background plus its ordered elements and interaction program.
type Slide struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title,omitempty"`
	Background   Background    `yaml:"background"`
	Elements     []Element     `yaml:"elements,omitempty"`
	Interactions []Interaction `yaml:"interactions,omitempty"`
}

// FindElement resolves an element ID against the slide's element list.
func (s *Slide) FindElement(id string) (*Element, bool) {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i], true
		}
	}
	return nil, false
}

// Settings are deck-level playback options.
type Settings struct {
	AutoAdvance     bool    `yaml:"auto_advance"`
	AdvanceDelay    float64 `yaml:"advance_delay,omitempty"` // seconds between interactions
	AllowNavigation bool    `yaml:"allow_navigation"`
}

// Deck is the root aggregate. It owns all slides transitively.
type Deck struct {
	Version  string            `yaml:"version"`
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title,omitempty"`
	Slides   []Slide           `yaml:"slides"`
	Settings Settings          `yaml:"settings"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// Interaction binds a trigger condition on an element to the effect it
// fires. ElementID is a weak reference; resolution failures are reported
// and skipped at playback, never fatal.
type Interaction struct {
	ID        string      `yaml:"id"`
	ElementID string      `yaml:"element_id"`
	Trigger   TriggerKind `yaml:"trigger"`
	Effect    Effect      `yaml:"effect"`
}
