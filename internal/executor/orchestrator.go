package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gridcast/gridcast/internal/config"
	"github.com/gridcast/gridcast/internal/dataset"
	"github.com/gridcast/gridcast/internal/evaluator"
	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/forecast/arima"
	"github.com/gridcast/gridcast/internal/forecast/naive"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
	"github.com/gridcast/gridcast/internal/util"
)

// NewProvider creates the forecasting provider named by the job config.
func NewProvider(modelType string) (forecast.Provider, error) {
	switch modelType {
	case "", "arima":
		return arima.NewProvider(), nil
	case "naive":
		return naive.NewProvider(naive.Last), nil
	case "drift":
		return naive.NewProvider(naive.Drift), nil
	case "mean":
		return naive.NewProvider(naive.Mean), nil
	default:
		return nil, fmt.Errorf("unsupported model type: %s", modelType)
	}
}

// EnumerateGrid generates the full Cartesian product of candidate
// orders in a stable order: p outermost, d middle, q innermost. The
// enumeration index on each candidate is what breaks score ties.
func EnumerateGrid(ps, ds, qs []int) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(ps)*len(ds)*len(qs))
	for _, p := range ps {
		for _, d := range ds {
			for _, q := range qs {
				candidates = append(candidates, models.Candidate{
					Order: models.Order{P: p, D: d, Q: q},
					Index: len(candidates),
				})
			}
		}
	}
	return candidates
}

// SearchOrchestrator coordinates the evaluation of all candidates of a
// grid search.
type SearchOrchestrator struct {
	// Reporter receives improvement and completion events. Defaults to
	// a writer reporter on stdout.
	Reporter Reporter

	cfg         models.JobConfig
	provider    forecast.Provider
	candidates  []models.Candidate
	newExecutor NewCandidateExecutorFunc
}

// NewSearchOrchestrator creates a search orchestrator from a job
// configuration.
func NewSearchOrchestrator(cfg models.JobConfig, executorFactory NewCandidateExecutorFunc) (*SearchOrchestrator, error) {
	provider, err := NewProvider(cfg.Model.Type)
	if err != nil {
		return nil, err
	}

	ps, err := util.ParseRangeSpec(cfg.Grid.P)
	if err != nil {
		return nil, fmt.Errorf("grid p: %w", err)
	}
	ds, err := util.ParseRangeSpec(cfg.Grid.D)
	if err != nil {
		return nil, fmt.Errorf("grid d: %w", err)
	}
	qs, err := util.ParseRangeSpec(cfg.Grid.Q)
	if err != nil {
		return nil, fmt.Errorf("grid q: %w", err)
	}

	candidates := EnumerateGrid(ps, ds, qs)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty candidate grid")
	}

	return &SearchOrchestrator{
		Reporter:    NewWriterReporter(os.Stdout),
		cfg:         cfg,
		provider:    provider,
		candidates:  candidates,
		newExecutor: executorFactory,
	}, nil
}

// Provider returns the forecasting provider selected by the config.
func (o *SearchOrchestrator) Provider() forecast.Provider {
	return o.provider
}

// Run evaluates every candidate of the grid against the series and
// returns the aggregated search result. The series is validated up
// front: a series that cannot produce a non-empty test suffix fails
// here, before any candidate is evaluated.
func (o *SearchOrchestrator) Run(ctx context.Context, series *timeseries.Series) (*models.SearchResult, error) {
	startTime := time.Now()

	trainFraction := o.cfg.TrainFraction
	if trainFraction == 0 {
		trainFraction = evaluator.DefaultTrainFraction
	}
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("empty input series")
	}
	if _, err := evaluator.SplitIndex(series.Len(), trainFraction); err != nil {
		return nil, err
	}
	if !series.IsFinite() {
		return nil, evaluator.ErrSeriesInvalid
	}

	workers := o.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(o.candidates) {
		workers = len(o.candidates)
	}

	results, skipped := o.runConcurrent(ctx, series, workers)

	result := o.aggregate(results, startTime)
	result.Skipped = skipped
	if skipped > 0 {
		result.Cancelled = true
	}

	o.Reporter.Finished(result)
	return result, nil
}

// best is the single record tracking the lowest error seen so far.
// Replacement requires a strictly lower error; on an exact tie the
// candidate enumerated earlier wins, so concurrent completion order
// cannot change the reported winner.
type best struct {
	mu    sync.Mutex
	set   bool
	rmse  float64
	order models.Order
	index int
}

// offer reports whether the result is a strict improvement worth
// narrating. An index tie-break corrects the record silently.
func (b *best) offer(result *models.CandidateResult) bool {
	if result.RMSE == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	rmse := *result.RMSE
	switch {
	case !b.set, rmse < b.rmse:
		b.set = true
		b.rmse = rmse
		b.order = result.Order
		b.index = result.Index
		return true
	case rmse == b.rmse && result.Index < b.index:
		b.order = result.Order
		b.index = result.Index
	}
	return false
}

// runConcurrent evaluates candidates using a fan-out/fan-in pattern.
// Returns collected results and the count of candidates never started.
func (o *SearchOrchestrator) runConcurrent(ctx context.Context, series *timeseries.Series, workers int) ([]*models.CandidateResult, int) {
	candChan := make(chan models.Candidate) // unbuffered
	resultChan := make(chan *models.CandidateResult, len(o.candidates))

	tracker := &best{}
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			exec := o.newExecutor(series, o.cfg, o.provider)

			for cand := range candChan {
				result, err := exec.Execute(ctx, cand)
				if err != nil {
					result = &models.CandidateResult{
						Order: cand.Order,
						Index: cand.Index,
						Error: &models.CandidateError{
							Type:    models.ErrInternalError,
							Message: err.Error(),
						},
					}
				}

				if tracker.offer(result) {
					o.Reporter.Improved(result.Order, *result.RMSE)
				}

				resultChan <- result
			}
		}()
	}

	// Feeder goroutine: sends candidates to workers in enumeration
	// order, respecting context cancellation.
	go func() {
		defer close(candChan)
		for _, cand := range o.candidates {
			select {
			case <-ctx.Done():
				return
			case candChan <- cand:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var results []*models.CandidateResult
	for result := range resultChan {
		results = append(results, result)
	}

	skipped := max(len(o.candidates)-len(results), 0)
	return results, skipped
}

func (o *SearchOrchestrator) aggregate(results []*models.CandidateResult, startTime time.Time) *models.SearchResult {
	jobName := startTime.Format("2006-01-02__15-04-05")
	if o.cfg.Name != nil {
		jobName = *o.cfg.Name
	}

	sr := &models.SearchResult{
		JobName:         jobName,
		TotalCandidates: len(o.candidates),
		StartedAt:       startTime,
		EndedAt:         time.Now(),
		Results:         make([]models.CandidateResult, 0, len(results)),
	}
	sr.TotalDurationSec = sr.EndedAt.Sub(sr.StartedAt).Seconds()

	var bestResult *models.CandidateResult
	for _, r := range results {
		if r.Error != nil {
			sr.Failed++
		} else if r.RMSE != nil {
			sr.Evaluated++
			switch {
			case bestResult == nil,
				*r.RMSE < *bestResult.RMSE,
				*r.RMSE == *bestResult.RMSE && r.Index < bestResult.Index:
				bestResult = r
			}
		}
		sr.Results = append(sr.Results, *r)
	}

	// Concurrent completion shuffles arrival order; report in
	// enumeration order.
	sort.Slice(sr.Results, func(i, j int) bool {
		return sr.Results[i].Index < sr.Results[j].Index
	})

	if bestResult != nil {
		order := bestResult.Order
		rmse := *bestResult.RMSE
		sr.BestOrder = &order
		sr.BestRMSE = &rmse
	}
	return sr
}

// RunFromConfig loads a job config file, loads its dataset, executes
// the search, and persists the result when an output directory is
// configured.
func RunFromConfig(ctx context.Context, configPath string) (*models.SearchResult, error) {
	cfg, err := config.LoadJobConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading job config: %w", err)
	}

	series, err := dataset.NewLoader().Load(ctx, cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	orchestrator, err := NewSearchOrchestrator(cfg, NewCandidateExecutor)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	result, err := orchestrator.Run(ctx, series)
	if err != nil {
		return nil, err
	}

	if cfg.OutputDir != "" {
		if err := WriteResult(cfg.OutputDir, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// WriteResult persists a search result as result.json under
// outputDir/<job name>.
func WriteResult(outputDir string, result *models.SearchResult) error {
	runDir := filepath.Join(outputDir, result.JobName)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "result.json"), data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
