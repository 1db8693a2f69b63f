package source

import (
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/deckplay/internal/geometry"
)

// Source provides slide background media: page count, natural dimensions
// for layout resolution, and rasterized pixels for the software surface.
type Source interface {
	PageCount() int
	NaturalSize(index int) (geometry.Size, error)
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// FitzSource serves backgrounds from the pages of a PDF document.
type FitzSource struct {
	doc  *fitz.Document
	path string
}

// NewFitzSource opens a PDF as a background source.
func NewFitzSource(path string) (*FitzSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzSource{doc: doc, path: path}, nil
}

func (f *FitzSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzSource) NaturalSize(index int) (geometry.Size, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: float64(rect.Dx()), Height: float64(rect.Dy())}, nil
}

// Render rasterizes one page. Opens a private document handle so renders
// can run from worker goroutines.
func (f *FitzSource) Render(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzSource) Close() error {
	return f.doc.Close()
}
