package evaluator

import "math"

// RMSE calculates the root-mean-squared error between actual and
// predicted values. Slices are compared element-wise up to the shorter
// length.
func RMSE(actual, predicted []float64) float64 {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// MAE calculates the mean absolute error.
func MAE(actual, predicted []float64) float64 {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(n)
}

// MAPE calculates the mean absolute percentage error, skipping zero
// actuals.
func MAPE(actual, predicted []float64) float64 {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return 0
	}
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs(actual[i]-predicted[i]) / math.Abs(actual[i]) * 100
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
