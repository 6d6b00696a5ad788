// Package naive implements trivial forecasting baselines. They ignore
// the requested order and exist as sanity references for the ARIMA
// search: a configuration that cannot beat the naive forecast is not
// worth keeping.
package naive

import (
	"context"
	"errors"

	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// Method selects the baseline forecast rule.
type Method string

const (
	// Last repeats the last observation.
	Last Method = "naive"
	// Drift extrapolates the line through the first and last observation.
	Drift Method = "drift"
	// Mean repeats the mean of the history.
	Mean Method = "mean"
)

// Provider fits baseline models.
type Provider struct {
	method Method
}

// NewProvider creates a baseline provider for the given method.
func NewProvider(method Method) *Provider {
	return &Provider{method: method}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return string(p.method)
}

// Fit captures the state the baseline needs from the history.
func (p *Provider) Fit(ctx context.Context, history *timeseries.Series, order models.Order) (forecast.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := history.Len()
	if n == 0 {
		return nil, errors.New("empty history")
	}

	m := &model{method: p.method, last: history.Values[n-1]}
	switch p.method {
	case Last:
	case Mean:
		m.mean = history.Mean()
	case Drift:
		if n < 2 {
			return nil, errors.New("drift requires at least two observations")
		}
		m.slope = (history.Values[n-1] - history.Values[0]) / float64(n-1)
	default:
		return nil, errors.New("unknown baseline method: " + string(p.method))
	}
	return m, nil
}

type model struct {
	method Method
	last   float64
	mean   float64
	slope  float64
}

func (m *model) Forecast(steps int) ([]float64, error) {
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}
	out := make([]float64, steps)
	for h := range out {
		switch m.method {
		case Mean:
			out[h] = m.mean
		case Drift:
			out[h] = m.last + float64(h+1)*m.slope
		default:
			out[h] = m.last
		}
	}
	return out, nil
}
