// Package arima implements the ARIMA(p,d,q) forecasting primitive.
//
// Estimation uses conditional sum of squares: AR terms are initialized
// from the Yule-Walker equations, MA terms start near zero, and both
// are refined by gradient steps on the conditional residuals. It is a
// deliberately simple estimator; the grid search treats any fit that
// does not converge as a skipped candidate.
package arima

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gridcast/gridcast/internal/forecast"
	"github.com/gridcast/gridcast/internal/models"
	"github.com/gridcast/gridcast/internal/timeseries"
)

const (
	maxIterations = 100
	tolerance     = 1e-6
	learningRate  = 0.01
)

// Provider fits ARIMA models.
type Provider struct{}

// NewProvider creates an ARIMA provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "arima"
}

// Fit estimates an ARIMA model of the given order on the history.
func (p *Provider) Fit(ctx context.Context, history *timeseries.Series, order models.Order) (forecast.Model, error) {
	m := New(order)
	if err := m.Fit(ctx, history); err != nil {
		return nil, err
	}
	return m, nil
}

// Stats holds goodness-of-fit statistics for a fitted model.
type Stats struct {
	Variance float64
	LogLik   float64
	AIC      float64
	AICc     float64
	BIC      float64
}

// Model represents an ARIMA model.
type Model struct {
	order     models.Order
	arCoeffs  []float64
	maCoeffs  []float64
	intercept float64
	stats     Stats

	fitted    bool
	data      *timeseries.Series
	diffData  *timeseries.Series
	residuals []float64
}

// New creates an unfitted ARIMA model with the specified order.
func New(order models.Order) *Model {
	return &Model{
		order:    order,
		arCoeffs: make([]float64, order.P),
		maCoeffs: make([]float64, order.Q),
	}
}

// Order returns the model order.
func (m *Model) Order() models.Order {
	return m.order
}

// Stats returns goodness-of-fit statistics of the fitted model.
func (m *Model) Stats() Stats {
	return m.stats
}

// Fit fits the model to the given series. The context is checked
// between optimizer iterations so a cancelled search does not keep
// grinding on a candidate.
func (m *Model) Fit(ctx context.Context, series *timeseries.Series) error {
	if !m.order.Valid() {
		return fmt.Errorf("invalid order %s", m.order)
	}
	if series.Len() < m.order.P+m.order.D+m.order.Q+10 {
		return fmt.Errorf("insufficient data: %d observations for order %s", series.Len(), m.order)
	}

	m.data = series

	diff := series
	for i := 0; i < m.order.D; i++ {
		diff = diff.Diff()
		if diff.Len() == 0 {
			return errors.New("differencing resulted in empty series")
		}
	}
	m.diffData = diff

	if err := m.estimate(ctx); err != nil {
		return err
	}

	m.computeStats()
	m.fitted = true
	return nil
}

// estimate runs conditional sum of squares estimation on the
// differenced series.
func (m *Model) estimate(ctx context.Context) error {
	y := m.diffData.Values
	n := len(y)
	p := m.order.P
	q := m.order.Q

	m.intercept = m.diffData.Mean()

	if p == 0 && q == 0 {
		// White noise around the intercept.
		m.residuals = make([]float64, n)
		for i, v := range y {
			m.residuals[i] = v - m.intercept
		}
		m.stats.Variance = m.diffData.Variance()
		return nil
	}

	if p > 0 {
		if acf := sampleACF(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(m.arCoeffs, phi)
			}
		}
	}
	for i := range m.maCoeffs {
		m.maCoeffs[i] = 0.1
	}

	start := max(p, q)
	residuals := make([]float64, n)
	prevSSE := math.Inf(1)

	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sse := m.conditionalResiduals(y, residuals)

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		for i := 0; i < p; i++ {
			m.arCoeffs[i] -= learningRate * arGrad[i] / float64(n)
			m.arCoeffs[i] = clamp(m.arCoeffs[i]) // stationarity bound
		}
		for i := 0; i < q; i++ {
			m.maCoeffs[i] -= learningRate * maGrad[i] / float64(n)
			m.maCoeffs[i] = clamp(m.maCoeffs[i]) // invertibility bound
		}

		if math.Abs(prevSSE-sse) < tolerance {
			break
		}
		prevSSE = sse
	}

	// Final residual pass with the converged coefficients.
	m.residuals = make([]float64, n)
	sse := m.conditionalResiduals(y, m.residuals)

	count := n - start
	if count > p+q+1 {
		m.stats.Variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.stats.Variance = sse / float64(count)
	}

	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return errors.New("estimation diverged")
	}
	return nil
}

// conditionalResiduals fills residuals in place and returns the sum of
// squared errors over the conditioning window.
func (m *Model) conditionalResiduals(y, residuals []float64) float64 {
	n := len(y)
	p := m.order.P
	q := m.order.Q
	start := max(p, q)

	sse := 0.0
	for t := 0; t < n; t++ {
		if t < start {
			residuals[t] = y[t] - m.intercept
			continue
		}
		pred := m.intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.arCoeffs[i] * (y[t-i-1] - m.intercept)
		}
		for i := 0; i < q && t-i-1 >= 0; i++ {
			pred += m.maCoeffs[i] * residuals[t-i-1]
		}
		residuals[t] = y[t] - pred
		sse += residuals[t] * residuals[t]
	}
	return sse
}

// computeStats calculates log-likelihood and information criteria
// assuming Gaussian errors.
func (m *Model) computeStats() {
	n := len(m.residuals)
	k := m.order.P + m.order.Q + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.stats.Variance > 0 {
		nf := float64(n)
		m.stats.LogLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(m.stats.Variance) - sse/(2*m.stats.Variance)
	} else {
		m.stats.LogLik = math.Inf(-1)
	}

	kf := float64(k)
	nf := float64(n)
	m.stats.AIC = -2*m.stats.LogLik + 2*kf
	if nf-kf-1 > 0 {
		m.stats.AICc = m.stats.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.stats.AICc = math.Inf(1)
	}
	m.stats.BIC = -2*m.stats.LogLik + kf*math.Log(nf)
}

// Forecast generates point forecasts for the specified number of steps
// ahead, on the original (integrated) scale.
func (m *Model) Forecast(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before forecasting")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p := m.order.P
	q := m.order.Q
	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.arCoeffs[i] * (extY[t-i-1] - m.intercept)
		}
		// Future residuals have expectation zero.
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.maCoeffs[i] * extResiduals[t-i-1]
		}
		extY[t] = pred
		extResiduals[t] = 0
	}

	forecasts := extY[n:]
	if m.order.D > 0 {
		forecasts = m.integrate(forecasts)
	}
	return forecasts, nil
}

// integrate undoes differencing to return forecasts on the original
// scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	// Tail value of each successive difference level, original scale
	// first.
	anchors := make([]float64, m.order.D)
	cur := m.data
	for i := 0; i < m.order.D; i++ {
		anchors[i] = cur.Values[cur.Len()-1]
		cur = cur.Diff()
	}

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for i := m.order.D - 1; i >= 0; i-- {
		prev := anchors[i]
		for j := range result {
			result[j] += prev
			prev = result[j]
		}
	}
	return result
}

// Residuals returns a copy of the in-sample residuals on the
// differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

func clamp(v float64) float64 {
	return math.Max(-0.99, math.Min(0.99, v))
}
