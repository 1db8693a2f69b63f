package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ivlev/deckplay/internal/analyzer"
	"github.com/ivlev/deckplay/internal/config"
	"github.com/ivlev/deckplay/internal/deck"
	"github.com/ivlev/deckplay/internal/director"
	"github.com/ivlev/deckplay/internal/geometry"
	"github.com/ivlev/deckplay/internal/render"
	"github.com/ivlev/deckplay/internal/source"
	"github.com/ivlev/deckplay/internal/system"
)

func main() {
	system.InitResourceLimits()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	// Create the working directories if they don't exist
	dirs := []string{"input/decks", "input/pdf", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	deckPtr := flag.String("deck", cfg.DeckPath, "Path to a deck YAML (default: the newest file in input/decks/)")
	outPtr := flag.String("out", cfg.OutputDir, "Directory for exported frames")
	widthPtr := flag.Int("width", cfg.Width, "Container width")
	heightPtr := flag.Int("height", cfg.Height, "Container height")
	presetPtr := flag.String("preset", "", "Container preset: 16:9, 9:16, 4:5")
	workersPtr := flag.Int("workers", cfg.Workers, "Export workers")
	dpiPtr := flag.Int("dpi", cfg.DPI, "Rasterization DPI for PDF backgrounds")
	statsPtr := flag.Bool("stats", cfg.ShowStats, "Print a performance report after export")
	generatePtr := flag.String("generate", "", "Generate a deck from a PDF or image directory instead of exporting")
	durationPtr := flag.Float64("duration", cfg.ProgramDuration, "Target program duration per slide when generating (sec)")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}
	container := geometry.Size{Width: float64(width), Height: float64(height)}

	if *generatePtr != "" {
		if err := generateDeck(*generatePtr, container, *dpiPtr, *durationPtr); err != nil {
			log.Fatalf("[-] Generation failed: %v", err)
		}
		return
	}

	deckPath := *deckPtr
	if deckPath == "" {
		latest, err := director.FindLatestDeck("input/decks")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a deck YAML in input/decks/ or pass -deck", err)
		}
		deckPath = latest
		fmt.Printf("[*] Selected deck: %s\n", deckPath)
	}

	d, err := deck.ReadDeck(deckPath)
	if err != nil {
		log.Fatalf("[-] Failed to load deck: %v", err)
	}
	for _, w := range d.Warnings() {
		log.Printf("[!] %s", w)
	}

	fmt.Printf("[*] Deck %q: %d slide(s), container %dx%d\n", d.Title, len(d.Slides), width, height)

	start := time.Now()
	frames := 0

	for i := range d.Slides {
		s := &d.Slides[i]

		bg, err := loadBackground(s, *dpiPtr)
		if err != nil {
			log.Printf("[!] Slide %q: background unavailable (%v), using blank canvas", s.ID, err)
			bg = blankBackground(s.Background.NaturalSize)
		}

		paths, err := render.ExportSlideFrames(s, bg, render.ExportOptions{
			OutDir:    *outPtr,
			Container: container,
			Workers:   *workersPtr,
		})
		if err != nil {
			log.Fatalf("[-] Slide %q export failed: %v", s.ID, err)
		}

		frames += len(paths)
		fmt.Printf("[*] Slide %d/%d (%s): %d frame(s)\n", i+1, len(d.Slides), s.ID, len(paths))
	}

	elapsed := time.Since(start)
	fmt.Printf("[+++] Done! %d frame(s) in %s\n", frames, *outPtr)

	if *statsPtr {
		system.Report{
			Slides:   len(d.Slides),
			Frames:   frames,
			Duration: elapsed,
			Stats:    system.Snapshot(),
		}.Print()
	}
}

// generateDeck bootstraps a deck from raw media: one slide per page, with
// hotspot elements suggested by background analysis and a timeline
// program from the director. Element positions are authored in the
// content-box space of the export container so they resolve back onto
// the detected regions.
func generateDeck(inputPath string, container geometry.Size, dpi int, programDuration float64) error {
	src, err := openSource(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if src.PageCount() == 0 {
		return fmt.Errorf("source %s has no pages", inputPath)
	}

	suggester, err := analyzer.NewSuggester("contrast")
	if err != nil {
		return err
	}
	dir := director.NewDirector()

	d := &deck.Deck{
		Version: "1",
		ID:      strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)),
		Title:   filepath.Base(inputPath),
		Settings: deck.Settings{
			AutoAdvance:     true,
			AdvanceDelay:    0.5,
			AllowNavigation: true,
		},
	}

	for page := 0; page < src.PageCount(); page++ {
		natural, err := src.NaturalSize(page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		img, err := src.Render(page, dpi)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		regions, err := suggester.Suggest(img)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		box, err := geometry.ResolveLayout(container, natural, geometry.FitContain)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		s := deck.Slide{
			ID: fmt.Sprintf("p%d", page+1),
			Background: deck.Background{
				Source:      fmt.Sprintf("%s#%d", inputPath, page+1),
				NaturalSize: natural,
				Fit:         geometry.FitContain,
			},
			Elements: director.ElementsFromRegions(fmt.Sprintf("p%d", page+1), regions, img.Bounds(), box),
		}

		if len(s.Elements) > 0 {
			program, err := dir.GenerateProgram(&s, geometry.BreakpointForWidth(container.Width), programDuration)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			s.Interactions = program
		}

		d.Slides = append(d.Slides, s)
		fmt.Printf("[*] Page %d: %d region(s) suggested\n", page+1, len(regions))
	}

	out := director.GenerateDeckPath("input/decks")
	if err := deck.WriteDeck(d, out); err != nil {
		return err
	}

	fmt.Printf("[+++] Deck written: %s\n", out)
	return nil
}

func openSource(path string) (source.Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return source.NewFitzSource(path)
	}
	return source.NewImageSource(path)
}

// loadBackground resolves a slide's background reference. PDF sources use
// the "path#page" form with 1-based pages.
func loadBackground(s *deck.Slide, dpi int) (image.Image, error) {
	ref := s.Background.Source
	if ref == "" {
		return nil, fmt.Errorf("no background source")
	}

	path, page := ref, 1
	if idx := strings.LastIndex(ref, "#"); idx > 0 {
		if n, err := strconv.Atoi(ref[idx+1:]); err == nil {
			path, page = ref[:idx], n
		}
	}

	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if page < 1 || page > src.PageCount() {
		return nil, fmt.Errorf("page %d out of range (%d pages)", page, src.PageCount())
	}
	return src.Render(page-1, dpi)
}

// blankBackground builds a flat canvas at the declared natural size so a
// deck with unreachable media still exports its layout.
func blankBackground(natural geometry.Size) image.Image {
	w, h := int(natural.Width), int(natural.Height)
	if w <= 0 || h <= 0 {
		w, h = 1280, 720
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 40, G: 40, B: 46, A: 255}}, image.Point{}, draw.Src)
	return img
}
