package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"thermopoll/internal/model"
)

var ErrShortSample = errors.New("sample too short")

// Pearson returns the product-moment correlation with its two-sided p-value
// from the t distribution on n-2 degrees of freedom.
func Pearson(x, y []float64) (r, p float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("pearson: %d vs %d samples", len(x), len(y))
	}
	if len(x) < 3 {
		return 0, 0, ErrShortSample
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 0, errors.New("pearson: zero variance input")
	}
	return r, correlationP(r, len(x)), nil
}

// Spearman ranks both samples (average ranks on ties) and correlates the
// ranks, with the same t approximation for the p-value.
func Spearman(x, y []float64) (rho, p float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("spearman: %d vs %d samples", len(x), len(y))
	}
	if len(x) < 3 {
		return 0, 0, ErrShortSample
	}
	rho = stat.Correlation(ranks(x), ranks(y), nil)
	if math.IsNaN(rho) {
		return 0, 0, errors.New("spearman: zero variance input")
	}
	return rho, correlationP(rho, len(x)), nil
}

// LagPairs aligns the two series for a lead/lag correlation. Positive lag
// pairs x[t] with y[t+lag] (x leading); negative lag pairs x[t+|lag|] with
// y[t] (x lagging).
func LagPairs(x, y []float64, lag int) (xs, ys []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	k := lag
	if k < 0 {
		k = -k
	}
	if k >= n {
		return nil, nil
	}
	if lag >= 0 {
		return x[:n-k], y[k:n]
	}
	return x[k:n], y[:n-k]
}

// LaggedCorrelations computes Pearson and Spearman cells for lag zero and
// every lead/lag up to maxLag, in the table order the study reports:
// simultaneous first, then lead and lag alternating for each offset.
func LaggedCorrelations(x, y []float64, maxLag int) ([]model.Correlation, error) {
	lags := []int{0}
	for k := 1; k <= maxLag; k++ {
		lags = append(lags, k, -k)
	}
	out := make([]model.Correlation, 0, 2*len(lags))
	for _, lag := range lags {
		xs, ys := LagPairs(x, y, lag)
		r, p, err := Pearson(xs, ys)
		if err != nil {
			return nil, fmt.Errorf("lag %d: %w", lag, err)
		}
		out = append(out, model.Correlation{
			Method: "pearson", Lag: lag, R: r, PValue: p, N: len(xs), Significance: Stars(p),
		})
		rho, sp, err := Spearman(xs, ys)
		if err != nil {
			return nil, fmt.Errorf("lag %d: %w", lag, err)
		}
		out = append(out, model.Correlation{
			Method: "spearman", Lag: lag, R: rho, PValue: sp, N: len(xs), Significance: Stars(sp),
		})
	}
	return out, nil
}

// Stars renders the conventional significance marker for a p-value.
func Stars(p float64) string {
	switch {
	case p <= 0.001:
		return "***"
	case p <= 0.01:
		return "**"
	case p <= 0.05:
		return "*"
	}
	return "ns"
}

func correlationP(r float64, n int) float64 {
	df := float64(n - 2)
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}
	t := r * math.Sqrt(df/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

// ranks assigns 1-based ranks with ties sharing their average rank.
func ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })
	out := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
