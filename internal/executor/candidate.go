package executor

import (
	"context"
	"errors"
	"time"

	"github.com/gridcast/gridcast/internal/evaluator"
	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// CandidateExecutor evaluates a single candidate and returns the result.
type CandidateExecutor interface {
	Execute(ctx context.Context, cand models.Candidate) (*models.CandidateResult, error)
}

// NewCandidateExecutorFunc creates a CandidateExecutor for one search run.
type NewCandidateExecutorFunc func(series *timeseries.Series, cfg models.JobConfig, provider forecast.Provider) CandidateExecutor

// DefaultCandidateExecutor runs the walk-forward evaluator for one
// candidate and converts any failure into a typed candidate error.
type DefaultCandidateExecutor struct {
	series     *timeseries.Series
	evaluator  *evaluator.Evaluator
	fitTimeout time.Duration
}

// NewCandidateExecutor creates the default candidate executor.
func NewCandidateExecutor(series *timeseries.Series, cfg models.JobConfig, provider forecast.Provider) CandidateExecutor {
	return &DefaultCandidateExecutor{
		series:     series,
		evaluator:  evaluator.New(provider, cfg.TrainFraction),
		fitTimeout: time.Duration(cfg.FitTimeoutSec * float64(time.Second)),
	}
}

// Execute evaluates the candidate. Evaluation failures are recorded on
// the result, never returned as errors: a failed candidate must not
// abort the search.
func (e *DefaultCandidateExecutor) Execute(ctx context.Context, cand models.Candidate) (*models.CandidateResult, error) {
	result := &models.CandidateResult{
		Order: cand.Order,
		Index: cand.Index,
	}
	start := time.Now()
	defer func() {
		result.DurationSec = time.Since(start).Seconds()
	}()

	if e.fitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fitTimeout)
		defer cancel()
	}

	rmse, err := e.evaluator.Evaluate(ctx, e.series, cand.Order)
	if err != nil {
		result.Error = &models.CandidateError{
			Type:    classify(err),
			Message: err.Error(),
		}
		return result, nil
	}

	result.RMSE = &rmse
	return result, nil
}

// classify maps an evaluation error onto the error taxonomy.
func classify(err error) models.ErrorType {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrFitTimeout
	case errors.Is(err, evaluator.ErrSeriesTooShort):
		return models.ErrSeriesTooShort
	case errors.Is(err, evaluator.ErrSeriesInvalid):
		return models.ErrSeriesInvalid
	case errors.Is(err, evaluator.ErrForecast):
		return models.ErrForecastFailed
	case errors.Is(err, evaluator.ErrFit):
		return models.ErrFitFailed
	default:
		return models.ErrInternalError
	}
}
