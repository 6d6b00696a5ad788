package timeseries

import (
	"math"
	"testing"
)

func TestSeriesMeanStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if got := s.Mean(); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	if got := s.Std(); math.Abs(got-2.138) > 0.001 {
		t.Errorf("Std = %v, want ~2.138", got)
	}
}

func TestSeriesDiff(t *testing.T) {
	s := New([]float64{1, 4, 9, 16, 25})

	d1 := s.Diff()
	want := []float64{3, 5, 7, 9}
	if d1.Len() != len(want) {
		t.Fatalf("Diff length = %d, want %d", d1.Len(), len(want))
	}
	for i, v := range want {
		if d1.Values[i] != v {
			t.Errorf("Diff[%d] = %v, want %v", i, d1.Values[i], v)
		}
	}

	d2 := d1.Diff()
	for i, v := range []float64{2, 2, 2} {
		if d2.Values[i] != v {
			t.Errorf("second Diff[%d] = %v, want %v", i, d2.Values[i], v)
		}
	}
}

func TestSeriesDiffNTooShort(t *testing.T) {
	s := New([]float64{1, 2})
	if got := s.DiffN(5); got.Len() != 0 {
		t.Errorf("DiffN(5) on 2 values should be empty, got %d values", got.Len())
	}
}

func TestSeriesSliceIsACopy(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	sub := s.Slice(1, 4)
	if sub.Len() != 3 || sub.Values[0] != 2 || sub.Values[2] != 4 {
		t.Fatalf("Slice(1,4) = %v", sub.Values)
	}

	sub.Values[0] = 100
	if s.Values[1] != 2 {
		t.Error("mutating a slice must not affect the original series")
	}

	if got := s.Slice(3, 2); got.Len() != 0 {
		t.Errorf("empty slice should have no values, got %d", got.Len())
	}
}

func TestSeriesAppend(t *testing.T) {
	s := New([]float64{1, 2})
	s.Append(3)

	if s.Len() != 3 || s.Values[2] != 3 {
		t.Errorf("Append: got %v", s.Values)
	}
}

func TestSeriesIsFinite(t *testing.T) {
	if !New([]float64{1, 2, 3}).IsFinite() {
		t.Error("finite series reported as non-finite")
	}
	if New([]float64{1, math.NaN()}).IsFinite() {
		t.Error("NaN series reported as finite")
	}
	if New([]float64{1, math.Inf(1)}).IsFinite() {
		t.Error("Inf series reported as finite")
	}
}
