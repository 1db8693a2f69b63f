package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteDeck writes a deck to a YAML file.
func WriteDeck(d *Deck, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDeck reads and validates a deck from a YAML file.
func ReadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck %s: %w", path, err)
	}

	return &d, nil
}
