package deck

import "fmt"

// Validate checks deck-wide structural invariants: unique element IDs per
// slide, complete responsive positions, recognized enum values, and sane
// effect parameters. Dangling interaction targets are legal here (they
// are skipped at playback) but reported by Warnings.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck %q has no slides", d.ID)
	}

	for si := range d.Slides {
		s := &d.Slides[si]
		if !s.Background.Fit.Valid() {
			return fmt.Errorf("slide %q: unknown fit mode %q", s.ID, s.Background.Fit)
		}

		seen := make(map[string]bool, len(s.Elements))
		for ei := range s.Elements {
			el := &s.Elements[ei]
			if el.ID == "" {
				return fmt.Errorf("slide %q: element %d has empty id", s.ID, ei)
			}
			if seen[el.ID] {
				return fmt.Errorf("slide %q: duplicate element id %q", s.ID, el.ID)
			}
			seen[el.ID] = true

			if !el.Kind.Valid() {
				return fmt.Errorf("slide %q: element %q has unknown kind %q", s.ID, el.ID, el.Kind)
			}
			if err := el.Position.Validate(); err != nil {
				return fmt.Errorf("slide %q: element %q: %w", s.ID, el.ID, err)
			}
		}

		for ii := range s.Interactions {
			in := &s.Interactions[ii]
			if in.ID == "" {
				return fmt.Errorf("slide %q: interaction %d has empty id", s.ID, ii)
			}
			if !in.Trigger.Valid() {
				return fmt.Errorf("slide %q: interaction %q has unknown trigger %q", s.ID, in.ID, in.Trigger)
			}
			if err := validateEffect(&in.Effect); err != nil {
				return fmt.Errorf("slide %q: interaction %q: %w", s.ID, in.ID, err)
			}
		}
	}

	return nil
}

func validateEffect(e *Effect) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	if e.Duration < 0 {
		return fmt.Errorf("effect %q: negative duration %.3f", e.ID, e.Duration)
	}

	switch e.Kind {
	case EffectSpotlight:
		if e.Spotlight == nil {
			return fmt.Errorf("effect %q: spotlight parameters missing", e.ID)
		}
		if e.Spotlight.DimPercent < 0 || e.Spotlight.DimPercent > 100 {
			return fmt.Errorf("effect %q: dim_percent %.1f out of [0,100]", e.ID, e.Spotlight.DimPercent)
		}
		if e.Spotlight.Shape != SpotlightCircle && e.Spotlight.Shape != SpotlightRect {
			return fmt.Errorf("effect %q: unknown spotlight shape %q", e.ID, e.Spotlight.Shape)
		}
	case EffectPanZoom:
		if e.PanZoom == nil {
			return fmt.Errorf("effect %q: pan_zoom parameters missing", e.ID)
		}
		if e.PanZoom.Zoom <= 0 {
			return fmt.Errorf("effect %q: zoom factor %.3f must be positive", e.ID, e.PanZoom.Zoom)
		}
	case EffectQuiz:
		if e.Quiz == nil {
			return fmt.Errorf("effect %q: quiz parameters missing", e.ID)
		}
		if e.Quiz.Answer < 0 || e.Quiz.Answer >= len(e.Quiz.Choices) {
			return fmt.Errorf("effect %q: answer index %d out of range", e.ID, e.Quiz.Answer)
		}
	}

	return nil
}

// Warnings lists non-fatal authoring problems: interactions whose element
// reference no longer resolves. Playback skips these steps.
func (d *Deck) Warnings() []string {
	var warnings []string
	for si := range d.Slides {
		s := &d.Slides[si]
		for ii := range s.Interactions {
			in := &s.Interactions[ii]
			if in.ElementID == "" {
				continue
			}
			if _, ok := s.FindElement(in.ElementID); !ok {
				warnings = append(warnings, fmt.Sprintf(
					"slide %q: interaction %q references missing element %q", s.ID, in.ID, in.ElementID))
			}
		}
	}
	return warnings
}
