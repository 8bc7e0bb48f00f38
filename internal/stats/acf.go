package stats

import "gonum.org/v1/gonum/stat"

// ACF returns the sample autocorrelation for lags 0..maxLag, normalized by
// the lag-zero autocovariance. A constant series autocorrelates as zero
// beyond lag zero.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if n == 0 || maxLag < 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	mean := stat.Mean(values, nil)
	var c0 float64
	for _, v := range values {
		d := v - mean
		c0 += d * d
	}
	out := make([]float64, maxLag+1)
	out[0] = 1
	if c0 == 0 {
		return out
	}
	for k := 1; k <= maxLag; k++ {
		var ck float64
		for t := k; t < n; t++ {
			ck += (values[t] - mean) * (values[t-k] - mean)
		}
		out[k] = ck / c0
	}
	return out
}
