package analyzer

import (
	"image"
	"image/color"
	"math"
)

// ContrastSuggester finds regions of interest by measuring local edge
// energy on a coarse cell grid and merging adjacent busy cells. It is a
// cheap stand-in for text/figure detection that works well on slides:
// content blocks are high-contrast against a flat background.
type ContrastSuggester struct {
	CellSize      int     // grid cell edge in pixels
	EdgeThreshold float64 // mean gradient magnitude a busy cell must exceed
	MinRegionArea int     // minimum suggested area in square pixels
}

// NewContrastSuggester creates a suggester with defaults tuned for
// 720p-1080p slide renders.
func NewContrastSuggester() *ContrastSuggester {
	return &ContrastSuggester{
		CellSize:      16,
		EdgeThreshold: 12.0,
		MinRegionArea: 500,
	}
}

// Suggest returns merged high-contrast regions, largest energy first.
func (s *ContrastSuggester) Suggest(img image.Image) ([]Region, error) {
	gray := toGrayscale(img)
	busy, cols, rows := s.busyCells(gray)
	regions := s.mergeCells(busy, cols, rows, gray.Bounds())

	out := regions[:0]
	for _, r := range regions {
		if r.Rect.Dx()*r.Rect.Dy() >= s.MinRegionArea {
			out = append(out, r)
		}
	}
	return out, nil
}

func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

// busyCells marks grid cells whose mean gradient magnitude exceeds the
// threshold. The gradient is a forward difference: it keeps single-pixel
// detail like text strokes visible, which a central difference averages
// away. Slides don't need a full Sobel pass.
func (s *ContrastSuggester) busyCells(gray *image.Gray) ([]bool, int, int) {
	bounds := gray.Bounds()
	cols := (bounds.Dx() + s.CellSize - 1) / s.CellSize
	rows := (bounds.Dy() + s.CellSize - 1) / s.CellSize
	busy := make([]bool, cols*rows)

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0 := bounds.Min.X + cx*s.CellSize
			y0 := bounds.Min.Y + cy*s.CellSize
			x1 := min(x0+s.CellSize, bounds.Max.X)
			y1 := min(y0+s.CellSize, bounds.Max.Y)

			var energy float64
			var samples int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					gx, gy := 0.0, 0.0
					if x+1 < bounds.Max.X {
						gx = float64(gray.GrayAt(x+1, y).Y) - float64(gray.GrayAt(x, y).Y)
					}
					if y+1 < bounds.Max.Y {
						gy = float64(gray.GrayAt(x, y+1).Y) - float64(gray.GrayAt(x, y).Y)
					}
					energy += math.Hypot(gx, gy)
					samples++
				}
			}

			if samples > 0 && energy/float64(samples) > s.EdgeThreshold {
				busy[cy*cols+cx] = true
			}
		}
	}

	return busy, cols, rows
}

// mergeCells groups 4-connected busy cells into bounding rectangles.
func (s *ContrastSuggester) mergeCells(busy []bool, cols, rows int, bounds image.Rectangle) []Region {
	visited := make([]bool, len(busy))
	var regions []Region

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			idx := cy*cols + cx
			if !busy[idx] || visited[idx] {
				continue
			}

			minX, minY, maxX, maxY := cx, cy, cx, cy
			cells := 0
			stack := []int{idx}
			visited[idx] = true

			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cells++

				x, y := cur%cols, cur/cols
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)

				for _, n := range [4]int{cur - 1, cur + 1, cur - cols, cur + cols} {
					if n < 0 || n >= len(busy) || visited[n] || !busy[n] {
						continue
					}
					// Horizontal neighbors must stay on the same row.
					if (n == cur-1 || n == cur+1) && n/cols != y {
						continue
					}
					visited[n] = true
					stack = append(stack, n)
				}
			}

			rect := image.Rect(
				bounds.Min.X+minX*s.CellSize,
				bounds.Min.Y+minY*s.CellSize,
				min(bounds.Min.X+(maxX+1)*s.CellSize, bounds.Max.X),
				min(bounds.Min.Y+(maxY+1)*s.CellSize, bounds.Max.Y),
			)

			area := (maxX - minX + 1) * (maxY - minY + 1)
			regions = append(regions, Region{
				Rect:       rect,
				Confidence: float64(cells) / float64(area),
			})
		}
	}

	return regions
}
