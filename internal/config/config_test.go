package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gridcast/gridcast/internal/config"
)

func TestLoadJobConfig(t *testing.T) {
	jobYaml := `name: test-search
output_dir: test-output
workers: 4
train_fraction: 0.7
fit_timeout_sec: 30
horizon: 6
model:
  type: arima
grid:
  p: "0-2"
  d: "0-1"
  q: "0-2"
dataset:
  path: ./data/sales.csv
  value_column: Sales
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "job.yaml")
	if err := os.WriteFile(tmpFile, []byte(jobYaml), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	cfg, err := config.LoadJobConfig(tmpFile)
	if err != nil {
		t.Fatalf("LoadJobConfig failed: %v", err)
	}

	if *cfg.Name != "test-search" {
		t.Errorf("expected name test-search, got %s", *cfg.Name)
	}
	if cfg.OutputDir != "test-output" {
		t.Errorf("expected output_dir test-output, got %s", cfg.OutputDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Workers)
	}
	if cfg.TrainFraction != 0.7 {
		t.Errorf("expected train_fraction 0.7, got %f", cfg.TrainFraction)
	}
	if cfg.FitTimeoutSec != 30 {
		t.Errorf("expected fit_timeout_sec 30, got %f", cfg.FitTimeoutSec)
	}
	if cfg.Horizon != 6 {
		t.Errorf("expected horizon 6, got %d", cfg.Horizon)
	}
	if cfg.Model.Type != "arima" {
		t.Errorf("expected model type arima, got %s", cfg.Model.Type)
	}
	if cfg.Grid.P != "0-2" || cfg.Grid.D != "0-1" || cfg.Grid.Q != "0-2" {
		t.Errorf("unexpected grid: %+v", cfg.Grid)
	}
	if cfg.Dataset.Path != "./data/sales.csv" {
		t.Errorf("expected dataset path ./data/sales.csv, got %s", cfg.Dataset.Path)
	}
	if cfg.Dataset.ValueColumn != "Sales" {
		t.Errorf("expected value column Sales, got %s", cfg.Dataset.ValueColumn)
	}
}

func TestLoadJobConfigDefaults(t *testing.T) {
	jobYaml := `grid:
  p: "0-1"
  d: "0"
  q: "0-1"
dataset:
  path: data.csv
`

	tmpFile := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(tmpFile, []byte(jobYaml), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	cfg, err := config.LoadJobConfig(tmpFile)
	if err != nil {
		t.Fatalf("LoadJobConfig failed: %v", err)
	}

	if cfg.Workers != 1 {
		t.Errorf("expected default workers 1, got %d", cfg.Workers)
	}
	if cfg.TrainFraction != 0.66 {
		t.Errorf("expected default train_fraction 0.66, got %f", cfg.TrainFraction)
	}
	if cfg.OutputDir != "runs" {
		t.Errorf("expected default output_dir runs, got %s", cfg.OutputDir)
	}
	if cfg.Model.Type != "arima" {
		t.Errorf("expected default model type arima, got %s", cfg.Model.Type)
	}
}

func TestLoadJobConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing dataset", "grid:\n  p: \"0\"\n  d: \"0\"\n  q: \"0\"\n"},
		{"missing grid", "dataset:\n  path: data.csv\n"},
		{"bad fraction", "train_fraction: 1.5\ngrid:\n  p: \"0\"\n  d: \"0\"\n  q: \"0\"\ndataset:\n  path: data.csv\n"},
		{"negative workers", "workers: -1\ngrid:\n  p: \"0\"\n  d: \"0\"\n  q: \"0\"\ndataset:\n  path: data.csv\n"},
		{"negative horizon", "horizon: -2\ngrid:\n  p: \"0\"\n  d: \"0\"\n  q: \"0\"\ndataset:\n  path: data.csv\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "job.yaml")
			if err := os.WriteFile(tmpFile, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("writing temp file: %v", err)
			}
			if _, err := config.LoadJobConfig(tmpFile); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDatasetConfig(t *testing.T) {
	datasetToml := `value_column = "Sales"
date_column = "Month"
date_format = "2006-01"
delimiter = ";"
has_header = true
skip_rows = 1
`

	fsys := fstest.MapFS{
		"dataset.toml": &fstest.MapFile{Data: []byte(datasetToml)},
	}

	cfg, err := config.LoadDatasetConfig(fsys)
	if err != nil {
		t.Fatalf("LoadDatasetConfig failed: %v", err)
	}

	if cfg.ValueColumn != "Sales" {
		t.Errorf("expected value column Sales, got %s", cfg.ValueColumn)
	}
	if cfg.DateColumn != "Month" {
		t.Errorf("expected date column Month, got %s", cfg.DateColumn)
	}
	if cfg.DateFormat != "2006-01" {
		t.Errorf("expected date format 2006-01, got %s", cfg.DateFormat)
	}
	if cfg.Delimiter != ";" {
		t.Errorf("expected delimiter ;, got %s", cfg.Delimiter)
	}
	if cfg.SkipRows != 1 {
		t.Errorf("expected skip_rows 1, got %d", cfg.SkipRows)
	}
}

func TestLoadDatasetConfigHeaderDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"dataset.toml": &fstest.MapFile{Data: []byte("value_column = \"y\"\n")},
	}

	cfg, err := config.LoadDatasetConfig(fsys)
	if err != nil {
		t.Fatalf("LoadDatasetConfig failed: %v", err)
	}
	if !cfg.HasHeader {
		t.Error("has_header should default to true when absent")
	}

	fsys = fstest.MapFS{
		"dataset.toml": &fstest.MapFile{Data: []byte("has_header = false\n")},
	}
	cfg, err = config.LoadDatasetConfig(fsys)
	if err != nil {
		t.Fatalf("LoadDatasetConfig failed: %v", err)
	}
	if cfg.HasHeader {
		t.Error("explicit has_header = false must be honored")
	}
}

func TestLoadDatasetConfigBadDelimiter(t *testing.T) {
	fsys := fstest.MapFS{
		"dataset.toml": &fstest.MapFile{Data: []byte("delimiter = \"abc\"\n")},
	}
	if _, err := config.LoadDatasetConfig(fsys); err == nil {
		t.Error("expected error for multi-character delimiter")
	}
}
