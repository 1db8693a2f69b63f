package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateDeckPath creates a timestamped deck filename inside dir.
func GenerateDeckPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("deck_%s.yaml", timestamp))
}

// FindLatestDeck finds the most recently modified deck YAML in dir.
func FindLatestDeck(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read deck directory: %w", err)
	}

	var decks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			decks = append(decks, filepath.Join(dir, name))
		}
	}

	if len(decks) == 0 {
		return "", fmt.Errorf("no deck files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(decks, func(i, j int) bool {
		infoI, _ := os.Stat(decks[i])
		infoJ, _ := os.Stat(decks[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return decks[0], nil
}
