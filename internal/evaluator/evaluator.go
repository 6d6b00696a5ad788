// Package evaluator scores one candidate order with a walk-forward
// (expanding-window) backtest.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// DefaultTrainFraction is the share of the series used as the initial
// training prefix.
const DefaultTrainFraction = 0.66

var (
	// ErrSeriesTooShort means the series cannot be split into a
	// non-empty training prefix and test suffix.
	ErrSeriesTooShort = errors.New("series too short for a walk-forward split")
	// ErrSeriesInvalid means the series contains non-finite values.
	ErrSeriesInvalid = errors.New("series contains non-finite values")
	// ErrFit wraps a failure of the modeling primitive to fit.
	ErrFit = errors.New("model fit failed")
	// ErrForecast wraps a failure of a fitted model to forecast.
	ErrForecast = errors.New("model forecast failed")
)

// SplitIndex returns the index separating the training prefix from the
// test suffix, or an error when either side would be empty.
func SplitIndex(n int, trainFraction float64) (int, error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return 0, fmt.Errorf("train fraction must be in (0,1), got %g", trainFraction)
	}
	split := int(trainFraction * float64(n))
	if split < 1 || split >= n {
		return 0, fmt.Errorf("%w: %d observations split at %d", ErrSeriesTooShort, n, split)
	}
	return split, nil
}

// Evaluator backtests candidate orders against a forecasting provider.
type Evaluator struct {
	provider      forecast.Provider
	trainFraction float64
}

// New creates an evaluator. A trainFraction of 0 selects the default
// 66/34 split.
func New(provider forecast.Provider, trainFraction float64) *Evaluator {
	if trainFraction == 0 {
		trainFraction = DefaultTrainFraction
	}
	return &Evaluator{
		provider:      provider,
		trainFraction: trainFraction,
	}
}

// Evaluate runs the walk-forward backtest for one order and returns
// the root-mean-squared error over the test suffix.
//
// The test suffix is processed strictly in temporal order. At every
// step the model is fit from scratch on the history, asked for a
// one-step-ahead forecast, and then the true observation is appended
// to the history. The history only ever grows and never contains a
// predicted value.
func (e *Evaluator) Evaluate(ctx context.Context, series *timeseries.Series, order models.Order) (float64, error) {
	n := series.Len()
	split, err := SplitIndex(n, e.trainFraction)
	if err != nil {
		return 0, err
	}
	if !series.IsFinite() {
		return 0, ErrSeriesInvalid
	}

	history := series.Slice(0, split)
	test := series.Values[split:]
	predictions := make([]float64, 0, len(test))

	for t, actual := range test {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("step %d/%d: %w", t+1, len(test), err)
		}

		model, err := e.provider.Fit(ctx, history, order)
		if err != nil {
			return 0, fmt.Errorf("%w: order %s at step %d: %w", ErrFit, order, t+1, err)
		}

		fc, err := model.Forecast(1)
		if err != nil {
			return 0, fmt.Errorf("%w: order %s at step %d: %w", ErrForecast, order, t+1, err)
		}
		if len(fc) != 1 {
			return 0, fmt.Errorf("%w: order %s at step %d: expected 1 forecast, got %d", ErrForecast, order, t+1, len(fc))
		}

		predictions = append(predictions, fc[0])
		history.Append(actual)
	}

	return RMSE(test, predictions), nil
}
