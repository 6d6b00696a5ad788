// Package forecast defines the boundary to the forecasting primitive.
// The evaluator only ever fits a model on a history and asks it for
// point forecasts; everything behind this interface is replaceable.
package forecast

import (
	"context"

	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// Model is a fitted model that can forecast future values.
type Model interface {
	// Forecast returns point forecasts for the given number of steps
	// ahead of the fitted history.
	Forecast(steps int) ([]float64, error)
}

// Provider fits models of a given order to observation histories.
// Fit may fail for numerical reasons; callers treat that as "no model
// for this order", not as a fatal condition.
type Provider interface {
	// Name returns the provider name (e.g. "arima", "naive").
	Name() string

	// Fit estimates a model of the given order on the history.
	Fit(ctx context.Context, history *timeseries.Series, order models.Order) (Model, error)
}
