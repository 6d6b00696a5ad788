// Package dataset resolves input series from CSV files, honoring an
// optional dataset.toml sidecar descriptor next to the file.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gridcast/gridcast/internal/config"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// Loader loads series from local paths.
type Loader struct{}

// NewLoader creates a new dataset loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load loads the series referenced by the job configuration. A
// dataset.toml in the CSV's directory supplies parsing options; the
// job's value_column, when set, overrides the descriptor.
func (l *Loader) Load(ctx context.Context, ref models.DatasetRef) (*timeseries.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	opts, err := l.csvOptions(filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}
	if ref.ValueColumn != "" {
		opts.ValueColumn = ref.ValueColumn
	}

	series, err := timeseries.LoadCSV(absPath, opts)
	if err != nil {
		return nil, err
	}

	series.Name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	return series, nil
}

// LoadDir loads every CSV file in a directory concurrently, keyed by
// file name without extension.
func (l *Loader) LoadDir(ctx context.Context, dir string) (map[string]*timeseries.Series, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset directory: %w", err)
	}

	opts, err := l.csvOptions(absDir)
	if err != nil {
		return nil, err
	}

	series := make(map[string]*timeseries.Series)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		name := entry.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := timeseries.LoadCSV(filepath.Join(absDir, name), opts)
			if err != nil {
				return fmt.Errorf("loading %s: %w", name, err)
			}
			key := strings.TrimSuffix(name, filepath.Ext(name))
			s.Name = key
			mu.Lock()
			series[key] = s
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", absDir)
	}
	return series, nil
}

// csvOptions builds CSV options from an optional dataset.toml in dir.
func (l *Loader) csvOptions(dir string) (*timeseries.CSVOptions, error) {
	opts := timeseries.DefaultCSVOptions()

	if _, err := os.Stat(filepath.Join(dir, "dataset.toml")); err != nil {
		return opts, nil
	}

	dcfg, err := config.LoadDatasetConfig(os.DirFS(dir))
	if err != nil {
		return nil, err
	}

	opts.ValueColumn = dcfg.ValueColumn
	opts.DateColumn = dcfg.DateColumn
	opts.HasHeader = dcfg.HasHeader
	opts.SkipRows = dcfg.SkipRows
	if dcfg.DateFormat != "" {
		opts.DateFormat = dcfg.DateFormat
	}
	if dcfg.Delimiter != "" {
		opts.Delimiter = rune(dcfg.Delimiter[0])
	}
	return opts, nil
}
