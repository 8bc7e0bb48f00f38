package trend

import (
	"sort"

	"thermopoll/internal/stats"
)

// SenSlope is the median of all pairwise slopes, a robust estimate of the
// per-step change.
func SenSlope(values []float64) (float64, error) {
	n := len(values)
	if n < 2 {
		return 0, stats.ErrShortSample
	}
	slopes := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			slopes = append(slopes, (values[j]-values[i])/float64(j-i))
		}
	}
	sort.Float64s(slopes)
	m := len(slopes)
	if m%2 == 0 {
		return (slopes[m/2-1] + slopes[m/2]) / 2, nil
	}
	return slopes[m/2], nil
}
