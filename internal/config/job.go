package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridcast/gridcast/internal/models"
)

// DefaultJobConfig returns a JobConfig with default values.
func DefaultJobConfig() models.JobConfig {
	return models.JobConfig{
		OutputDir:     "runs",
		Workers:       1,
		TrainFraction: 0.66,
		Model: models.ModelConfig{
			Type: "arima",
		},
	}
}

// LoadJobConfig loads and parses a job.yaml file.
func LoadJobConfig(path string) (models.JobConfig, error) {
	cfg := DefaultJobConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading job config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing job config: %w", err)
	}

	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.TrainFraction == 0 {
		cfg.TrainFraction = 0.66
	}

	if err := validateJobConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateJobConfig(cfg models.JobConfig) error {
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.TrainFraction <= 0 || cfg.TrainFraction >= 1 {
		return fmt.Errorf("train_fraction must be in (0,1), got %g", cfg.TrainFraction)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", cfg.Workers)
	}
	if cfg.FitTimeoutSec < 0 {
		return fmt.Errorf("fit_timeout_sec must be non-negative, got %g", cfg.FitTimeoutSec)
	}
	if cfg.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", cfg.Horizon)
	}
	if cfg.Grid.P == "" || cfg.Grid.D == "" || cfg.Grid.Q == "" {
		return fmt.Errorf("grid.p, grid.d, and grid.q are required")
	}
	return nil
}
