package feeders

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TomlFeeder is a feeder that reads TOML files.
type TomlFeeder struct {
	Path string
}

// NewTomlFeeder creates a new TomlFeeder that reads from the specified TOML file.
func NewTomlFeeder(filePath string) TomlFeeder {
	return TomlFeeder{Path: filePath}
}

// Feed decodes the whole file into structure.
func (t TomlFeeder) Feed(structure any) error {
	if _, err := toml.DecodeFile(t.Path, structure); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTomlReadFailed, t.Path, err)
	}
	return nil
}

// FeedKey reads a TOML file and extracts a specific table.
func (t TomlFeeder) FeedKey(key string, target any) error {
	var allData map[string]any
	if err := t.Feed(&allData); err != nil {
		return fmt.Errorf("failed to read toml: %w", err)
	}

	value, exists := allData[key]
	if !exists {
		return nil
	}

	// Remarshal and unmarshal to handle type conversions
	valueBytes, err := toml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err = toml.Unmarshal(valueBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal value to target: %w", err)
	}

	return nil
}
