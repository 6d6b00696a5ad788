package config

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/gridcast/gridcast/internal/models"
)

// DefaultDatasetConfig returns a DatasetConfig with default values.
func DefaultDatasetConfig() models.DatasetConfig {
	return models.DatasetConfig{
		DateFormat: "2006-01-02",
		Delimiter:  ",",
		HasHeader:  true,
	}
}

// LoadDatasetConfig loads and parses a dataset.toml file from the
// given filesystem.
func LoadDatasetConfig(fsys fs.FS) (models.DatasetConfig, error) {
	cfg := DefaultDatasetConfig()

	data, err := fs.ReadFile(fsys, "dataset.toml")
	if err != nil {
		return cfg, fmt.Errorf("reading dataset.toml: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing dataset.toml: %w", err)
	}

	// An absent has_header means the default, not false.
	if !md.IsDefined("has_header") {
		cfg.HasHeader = true
	}

	if len(cfg.Delimiter) != 1 {
		return cfg, fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter)
	}
	if cfg.SkipRows < 0 {
		return cfg, fmt.Errorf("skip_rows must be non-negative, got %d", cfg.SkipRows)
	}

	return cfg, nil
}
