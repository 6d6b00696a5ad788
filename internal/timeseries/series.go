// Package timeseries provides the ordered observation sequence the rest
// of the repository operates on.
package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series represents an ordered sequence of float64 observations.
// Timestamps, when present, are used only for display; the position in
// Values is the time index the algorithms care about.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a series from values. The slice is used as-is, not copied.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithTimestamps creates a series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{Timestamps: timestamps, Values: values}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the lag-n difference of the series.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-n)
	for i := n; i < len(s.Values); i++ {
		result[i-n] = s.Values[i] - s.Values[i-n]
	}

	var timestamps []time.Time
	if len(s.Timestamps) == len(s.Values) {
		timestamps = append(timestamps, s.Timestamps[n:]...)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name,
	}
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) == len(s.Values) {
		timestamps = append(timestamps, s.Timestamps[start:end]...)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Append adds one observation to the end of the series.
func (s *Series) Append(v float64) {
	s.Values = append(s.Values, v)
	// Timestamps, if any, stop tracking appended values; position is
	// the index that matters.
}

// IsFinite reports whether every observation is a finite number.
func (s *Series) IsFinite() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
