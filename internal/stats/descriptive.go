// Package stats implements the descriptive and inferential statistics used
// across the analyses. Conventions (sample standard deviation,
// linear-interpolated percentiles, biased cross-correlation normalization)
// follow the ones the study's published tables were computed with, so
// results stay directly comparable.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"thermopoll/internal/model"
)

// Summarize computes the descriptive block for one variable.
func Summarize(variable model.Variable, values []float64) model.SummaryStats {
	s := model.SummaryStats{Variable: variable, N: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Mean = stat.Mean(values, nil)
	s.Min = values[0]
	s.Max = values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	s.Median = median(values)
	if len(values) > 2 {
		s.Skewness = stat.Skew(values, nil)
	}
	if len(values) > 3 {
		s.Kurtosis = stat.ExKurtosis(values, nil)
	}
	return s
}

// Percentile is the linear-interpolated percentile on the closed sample,
// the convention the event thresholds are defined against: the rank
// position is (n-1)*pct/100 and fractional positions interpolate between
// neighbors.
func Percentile(values []float64, pct float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("percentile of empty sample")
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("percentile %v out of [0, 100]", pct)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	h := (float64(len(sorted)) - 1) * pct / 100
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
