package analyzer

import (
	"fmt"
	"image"
)

// Region is a suggested area of interest on a background image, a
// candidate for a hotspot element during authoring.
type Region struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Suggester is the interface for background analysis strategies.
type Suggester interface {
	Suggest(img image.Image) ([]Region, error)
}

// NewSuggester creates a suggester based on the specified variant.
func NewSuggester(variant string) (Suggester, error) {
	switch variant {
	case "contrast", "":
		return NewContrastSuggester(), nil
	case "ocr":
		return nil, fmt.Errorf("OCR suggester not yet implemented")
	default:
		return nil, fmt.Errorf("unknown suggester variant: %s", variant)
	}
}
