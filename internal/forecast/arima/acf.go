package arima

// sampleACF returns the sample autocorrelation function up to maxLag,
// including lag zero. Returns nil when the series is too short or has
// zero variance.
func sampleACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag < 1 || n <= maxLag {
		return nil
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	c0 := 0.0
	for _, v := range y {
		d := v - mean
		c0 += d * d
	}
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	for k := 1; k <= maxLag; k++ {
		ck := 0.0
		for t := k; t < n; t++ {
			ck += (y[t] - mean) * (y[t-k] - mean)
		}
		acf[k] = ck / c0
	}
	return acf
}

// yuleWalker estimates AR coefficients from an autocorrelation
// sequence using Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
