package config

import (
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Config holds export/preview settings. Environment variables provide
// defaults; command-line flags override them.
type Config struct {
	DeckPath  string `env:"DECKPLAY_DECK"`
	OutputDir string `env:"DECKPLAY_OUT" envDefault:"output"`
	Width     int    `env:"DECKPLAY_WIDTH" envDefault:"1280"`
	Height    int    `env:"DECKPLAY_HEIGHT" envDefault:"720"`
	DPI       int    `env:"DECKPLAY_DPI" envDefault:"150"`
	Workers   int    `env:"DECKPLAY_WORKERS"`
	ShowStats bool   `env:"DECKPLAY_STATS"`

	// Program generation
	ProgramDuration float64 `env:"DECKPLAY_PROGRAM_DURATION" envDefault:"10"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &cfg, nil
}
