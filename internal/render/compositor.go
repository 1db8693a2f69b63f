package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/effects"
	"github.com/ivlev/deckplay/internal/geometry"
	"github.com/ivlev/deckplay/internal/system"
)

// ResolvedElement pairs an element with its container-absolute bounds.
type ResolvedElement struct {
	Element *deck.Element
	Rect    geometry.Rect
}

// ResolveElements maps every visible element of a slide into
// container-absolute pixels for one breakpoint.
func ResolveElements(s *deck.Slide, box geometry.ContentBox, bp geometry.Breakpoint) ([]ResolvedElement, error) {
	resolved := make([]ResolvedElement, 0, len(s.Elements))
	for i := range s.Elements {
		el := &s.Elements[i]
		if !el.Visible {
			continue
		}
		rect, err := geometry.ResolveResponsiveRect(box, el.Position, bp)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", el.ID, err)
		}
		resolved = append(resolved, ResolvedElement{Element: el, Rect: rect})
	}
	return resolved, nil
}

var canvasColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}

// Compositor is the software playback surface: it paints frames from
// resolved layout plus the effect engine's per-tick parameters. It only
// reads engine output; geometry comes exclusively from the shared
// resolver.
type Compositor struct {
	container geometry.Size
	fit       geometry.FitMode
	natural   geometry.Size
	box       geometry.ContentBox
	scaled    *image.RGBA // background pre-scaled to the content box
}

// NewCompositor prepares a surface of the given container size. The
// background is scaled into the resolved content box once, up front.
func NewCompositor(background image.Image, container geometry.Size, fit geometry.FitMode) (*Compositor, error) {
	b := background.Bounds()
	natural := geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}

	box, err := geometry.ResolveLayout(container, natural, fit)
	if err != nil {
		return nil, err
	}

	scaled := image.NewRGBA(image.Rect(0, 0, round(box.Width), round(box.Height)))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), background, b, xdraw.Src, nil)

	return &Compositor{
		container: container,
		fit:       fit,
		natural:   natural,
		box:       box,
		scaled:    scaled,
	}, nil
}

// MeasureContainer implements surface.Surface.
func (c *Compositor) MeasureContainer() geometry.Size {
	return c.container
}

// ContentBox returns the resolved background box for this surface.
func (c *Compositor) ContentBox() geometry.ContentBox {
	return c.box
}

// Frame paints one frame: background under the current transform, element
// content, then the spotlight overlay. params may be nil for a static
// frame. The returned buffer goes back via Release.
func (c *Compositor) Frame(elements []ResolvedElement, params *effects.FrameParams) *image.RGBA {
	w, h := round(c.container.Width), round(c.container.Height)
	frame := system.GetImage(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: canvasColor}, image.Point{}, draw.Src)

	t := effects.Identity
	if params != nil && params.Transform.Scale != 0 {
		t = params.Transform
	}

	c.drawBackground(frame, t)

	for _, re := range elements {
		c.drawElement(frame, re, t)
	}

	if params != nil && params.Spotlight != nil {
		applySpotlight(frame, params.Spotlight)
	}

	return frame
}

// Release returns a frame buffer to the pool.
func (c *Compositor) Release(frame *image.RGBA) {
	system.PutImage(frame)
}

// drawBackground places the pre-scaled background under the layer
// transform. The transform applies to the whole slide layer, never to
// individual elements.
func (c *Compositor) drawBackground(frame *image.RGBA, t effects.Transform) {
	dst := transformRect(geometry.Rect{
		X: c.box.Left, Y: c.box.Top, Width: c.box.Width, Height: c.box.Height,
	}, t)
	dstRect := image.Rect(round(dst.X), round(dst.Y), round(dst.X+dst.Width), round(dst.Y+dst.Height))

	if t == effects.Identity {
		draw.Draw(frame, dstRect, c.scaled, image.Point{}, draw.Src)
		return
	}
	// Zoomed frames rescale from the cached content-box image.
	xdraw.ApproxBiLinear.Scale(frame, dstRect, c.scaled, c.scaled.Bounds(), xdraw.Src, nil)
}

func (c *Compositor) drawElement(frame *image.RGBA, re ResolvedElement, t effects.Transform) {
	rect := transformRect(re.Rect, t)
	bounds := image.Rect(round(rect.X), round(rect.Y), round(rect.X+rect.Width), round(rect.Y+rect.Height))

	el := re.Element
	switch el.Kind {
	case deck.ElementMedia:
		if el.Media != nil && el.Media.Kind == "qr" {
			drawQR(frame, bounds, el.Media.Source)
			return
		}
		strokeRect(frame, bounds, color.RGBA{R: 90, G: 160, B: 255, A: 255})
	case deck.ElementShape:
		fill := color.RGBA{R: 200, G: 200, B: 200, A: 90}
		if el.Shape != nil && el.Shape.Fill != "" {
			fill = namedColor(el.Shape.Fill)
		}
		fillRect(frame, bounds, fill)
	case deck.ElementText:
		strokeRect(frame, bounds, color.RGBA{R: 230, G: 230, B: 230, A: 255})
	default: // hotspot
		strokeRect(frame, bounds, color.RGBA{R: 255, G: 200, B: 0, A: 255})
	}
}

// drawQR renders an inline QR code for "qr:<data>" media sources.
func drawQR(frame *image.RGBA, bounds image.Rectangle, source string) {
	data := strings.TrimPrefix(source, "qr:")
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	if side <= 0 {
		return
	}

	code, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		strokeRect(frame, bounds, color.RGBA{R: 255, G: 80, B: 80, A: 255})
		return
	}
	img := code.Image(side)
	draw.Draw(frame, image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+side, bounds.Min.Y+side),
		img, img.Bounds().Min, draw.Over)
}

// applySpotlight dims everything outside the cut-out region.
func applySpotlight(frame *image.RGBA, spot *effects.SpotlightFrame) {
	if spot.Dim <= 0 {
		return
	}
	alpha := spot.Dim
	if alpha > 1 {
		alpha = 1
	}

	bounds := frame.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if insideCutout(spot, float64(x)+0.5, float64(y)+0.5) {
				continue
			}
			dimPixel(frame, x, y, alpha)
		}
	}
}

func insideCutout(spot *effects.SpotlightFrame, x, y float64) bool {
	if spot.Shape == deck.SpotlightRect {
		return x >= spot.Rect.X && x < spot.Rect.X+spot.Rect.Width &&
			y >= spot.Rect.Y && y < spot.Rect.Y+spot.Rect.Height
	}
	dx, dy := x-spot.CenterX, y-spot.CenterY
	return math.Hypot(dx, dy) <= spot.Radius
}

func dimPixel(img *image.RGBA, x, y int, alpha float64) {
	i := img.PixOffset(x, y)
	keep := 1 - alpha
	img.Pix[i+0] = uint8(float64(img.Pix[i+0]) * keep)
	img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * keep)
	img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * keep)
}

// transformRect applies the slide-layer transform to a rectangle.
func transformRect(r geometry.Rect, t effects.Transform) geometry.Rect {
	return geometry.Rect{
		X:      r.X*t.Scale + t.TranslateX,
		Y:      r.Y*t.Scale + t.TranslateY,
		Width:  r.Width * t.Scale,
		Height: r.Height * t.Scale,
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Over)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func namedColor(name string) color.RGBA {
	switch name {
	case "red":
		return color.RGBA{R: 220, G: 60, B: 60, A: 120}
	case "green":
		return color.RGBA{R: 60, G: 190, B: 90, A: 120}
	case "blue":
		return color.RGBA{R: 70, G: 120, B: 230, A: 120}
	case "yellow":
		return color.RGBA{R: 240, G: 200, B: 40, A: 120}
	default:
		return color.RGBA{R: 200, G: 200, B: 200, A: 90}
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
