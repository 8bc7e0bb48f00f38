package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"thermopoll/internal/model"
)

// CCF computes the cross-correlation function between x and y for lags
// 0..maxLag. ccf[k] correlates x[t+k] with y[t], so with x as the response
// residuals and y as the driver, lag k reads as the driver leading by k
// steps. Normalization is the biased convention: the covariance sum is
// divided by the full sample size and the full-sample population standard
// deviations, not by the per-lag overlap.
func CCF(x, y []float64, maxLag int) ([]model.CCFPoint, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("ccf: %d vs %d samples", len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, ErrShortSample
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("ccf: negative max lag %d", maxLag)
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	sx := stat.PopStdDev(x, nil)
	sy := stat.PopStdDev(y, nil)
	if sx == 0 || sy == 0 {
		return nil, errors.New("ccf: zero variance input")
	}
	out := make([]model.CCFPoint, 0, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		var sum float64
		for t := 0; t+k < n; t++ {
			sum += (x[t+k] - mx) * (y[t] - my)
		}
		out = append(out, model.CCFPoint{Lag: k, R: sum / (float64(n) * sx * sy)})
	}
	return out, nil
}

// Standardize centers values on their mean and scales by the sample
// standard deviation.
func Standardize(values []float64) ([]float64, error) {
	if len(values) < 2 {
		return nil, ErrShortSample
	}
	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	if std == 0 {
		return nil, errors.New("standardize: zero variance")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out, nil
}
