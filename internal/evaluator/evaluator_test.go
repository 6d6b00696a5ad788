package evaluator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

// stubProvider forecasts the last value of the history it was fit on
// and records the history length at every fit call.
type stubProvider struct {
	historyLens []int
	fitErr      error
	forecastLen int
}

type stubModel struct {
	last  float64
	count int
}

func (m *stubModel) Forecast(steps int) ([]float64, error) {
	fc := make([]float64, m.count)
	for i := range fc {
		fc[i] = m.last
	}
	return fc, nil
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fit(ctx context.Context, history *timeseries.Series, order models.Order) (forecast.Model, error) {
	if p.fitErr != nil {
		return nil, p.fitErr
	}
	p.historyLens = append(p.historyLens, history.Len())
	count := p.forecastLen
	if count == 0 {
		count = 1
	}
	return &stubModel{last: history.Values[history.Len()-1], count: count}, nil
}

func TestSplitIndex(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
		want     int
		wantErr  bool
	}{
		{"ten observations", 10, 0.66, 6, false},
		{"hundred observations", 100, 0.66, 66, false},
		{"minimal viable", 2, 0.66, 1, false},
		{"single observation", 1, 0.66, 0, true},
		{"empty", 0, 0.66, 0, true},
		{"fraction too low", 10, 0, 0, true},
		{"fraction too high", 10, 1, 0, true},
		{"custom fraction", 10, 0.8, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitIndex(tt.n, tt.fraction)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitIndex failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SplitIndex(%d, %g) = %d, want %d", tt.n, tt.fraction, got, tt.want)
			}
		})
	}
}

func TestEvaluateWalkForward(t *testing.T) {
	// Ten observations split at 6: test suffix is [7 8 9 10]. The stub
	// always predicts the previous value, so every error is exactly 1.
	series := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	provider := &stubProvider{}

	rmse, err := New(provider, 0).Evaluate(context.Background(), series, models.Order{P: 1})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if rmse != 1.0 {
		t.Errorf("RMSE = %v, want 1.0", rmse)
	}

	// The window expands by one observation per step and is refit from
	// scratch each time.
	wantLens := []int{6, 7, 8, 9}
	if len(provider.historyLens) != len(wantLens) {
		t.Fatalf("expected %d fits, got %d", len(wantLens), len(provider.historyLens))
	}
	for i, want := range wantLens {
		if provider.historyLens[i] != want {
			t.Errorf("fit %d saw history of %d, want %d", i, provider.historyLens[i], want)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	series := timeseries.New([]float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8})

	first, err := New(&stubProvider{}, 0).Evaluate(context.Background(), series, models.Order{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	second, err := New(&stubProvider{}, 0).Evaluate(context.Background(), series, models.Order{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated evaluation differs: %v vs %v", first, second)
	}
}

func TestEvaluateDoesNotMutateSeries(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	series := timeseries.New(values)

	if _, err := New(&stubProvider{}, 0).Evaluate(context.Background(), series, models.Order{}); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if series.Len() != len(values) {
		t.Fatalf("series length changed to %d", series.Len())
	}
	for i, v := range values {
		if series.Values[i] != v {
			t.Errorf("series value %d changed to %v", i, series.Values[i])
		}
	}
}

func TestEvaluateSeriesTooShort(t *testing.T) {
	series := timeseries.New([]float64{42})
	_, err := New(&stubProvider{}, 0).Evaluate(context.Background(), series, models.Order{})
	if !errors.Is(err, ErrSeriesTooShort) {
		t.Errorf("expected ErrSeriesTooShort, got %v", err)
	}
}

func TestEvaluateSeriesInvalid(t *testing.T) {
	series := timeseries.New([]float64{1, 2, math.NaN(), 4, 5, 6, 7, 8, 9, 10})
	_, err := New(&stubProvider{}, 0).Evaluate(context.Background(), series, models.Order{})
	if !errors.Is(err, ErrSeriesInvalid) {
		t.Errorf("expected ErrSeriesInvalid, got %v", err)
	}
}

func TestEvaluateFitFailure(t *testing.T) {
	series := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	provider := &stubProvider{fitErr: errors.New("singular matrix")}

	_, err := New(provider, 0).Evaluate(context.Background(), series, models.Order{P: 2})
	if !errors.Is(err, ErrFit) {
		t.Errorf("expected ErrFit, got %v", err)
	}
}

func TestEvaluateWrongForecastLength(t *testing.T) {
	series := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	provider := &stubProvider{forecastLen: 3}

	_, err := New(provider, 0).Evaluate(context.Background(), series, models.Order{})
	if !errors.Is(err, ErrForecast) {
		t.Errorf("expected ErrForecast, got %v", err)
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	_, err := New(&stubProvider{}, 0).Evaluate(ctx, series, models.Order{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
