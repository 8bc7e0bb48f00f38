// Package decompose splits a monthly series into trend, seasonal, and
// residual components. The robust path iteratively reweights observations
// with the biweight function so single anomalous months do not distort the
// seasonal shape; the plain path is classical additive decomposition.
package decompose

import (
	"fmt"
	"math"
	"sort"

	"thermopoll/internal/timeseries"
)

type Result struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Robust   bool
}

// Decompose runs an additive decomposition with the given period. With
// robust set, robustIters reweighting passes are applied (minimum 2).
// Classical trend edges (the first and last half period) are NaN.
func Decompose(s *timeseries.Series, period int, robust bool, robustIters int) (*Result, error) {
	n := s.Len()
	if period < 2 {
		return nil, fmt.Errorf("decompose: period %d too small", period)
	}
	if n < 2*period {
		return nil, fmt.Errorf("decompose: need at least %d observations for period %d, got %d", 2*period, period, n)
	}
	var trend, seasonal, residual []float64
	if robust {
		trend, seasonal, residual = robustFit(s.Values, period, robustIters)
	} else {
		trend, seasonal, residual = classicalFit(s.Values, period)
	}
	return &Result{
		Original: s,
		Trend:    component(s, "trend", trend),
		Seasonal: component(s, "seasonal", seasonal),
		Residual: component(s, "residual", residual),
		Period:   period,
		Robust:   robust,
	}, nil
}

func component(s *timeseries.Series, name string, values []float64) *timeseries.Series {
	return &timeseries.Series{Months: s.Months, Values: values, Name: s.Name + "_" + name}
}

func classicalFit(values []float64, period int) (trend, seasonal, residual []float64) {
	n := len(values)
	trend = centeredMA(values, period)

	detrended := make([]float64, n)
	for i := range values {
		detrended[i] = values[i] - trend[i]
	}
	pattern := seasonalMeans(detrended, nil, period)
	seasonal = make([]float64, n)
	residual = make([]float64, n)
	for i := range values {
		seasonal[i] = pattern[i%period]
		residual[i] = values[i] - trend[i] - seasonal[i]
	}
	return trend, seasonal, residual
}

// centeredMA is the classical trend filter: a centered moving average, with
// the two edge observations half-weighted when the period is even.
func centeredMA(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	half := period / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = values[i-half]/2 + values[i+half]/2
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		out[i] = sum / float64(period)
	}
	return out
}

func robustFit(values []float64, period, iters int) (trend, seasonal, residual []float64) {
	n := len(values)
	if iters < 2 {
		iters = 2
	}
	trend = make([]float64, n)
	seasonal = make([]float64, n)
	residual = make([]float64, n)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	for iter := 0; iter < iters; iter++ {
		detrended := make([]float64, n)
		for i := range values {
			detrended[i] = values[i] - trend[i]
		}
		pattern := seasonalMeans(detrended, weights, period)
		deseasonalized := make([]float64, n)
		for i := range values {
			seasonal[i] = pattern[i%period]
			deseasonalized[i] = values[i] - seasonal[i]
		}
		smoothTrend(trend, deseasonalized, weights, period)
		for i := range values {
			residual[i] = values[i] - trend[i] - seasonal[i]
		}
		if iter < iters-1 {
			updateWeights(weights, residual)
		}
	}
	return trend, seasonal, residual
}

// seasonalMeans averages detrended values into one bucket per phase and
// centers the pattern to zero mean. NaNs (classical trend edges) are
// skipped; nil weights mean equal weighting.
func seasonalMeans(detrended, weights []float64, period int) []float64 {
	pattern := make([]float64, period)
	counts := make([]float64, period)
	for i, v := range detrended {
		if math.IsNaN(v) {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		pattern[i%period] += v * w
		counts[i%period] += w
	}
	var mean float64
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= counts[i]
		}
		mean += pattern[i]
	}
	mean /= float64(period)
	for i := range pattern {
		pattern[i] -= mean
	}
	return pattern
}

// smoothTrend fills trend with a triangularly weighted moving average of
// the deseasonalized series, window one period wide (rounded up to odd),
// scaled by the robustness weights.
func smoothTrend(trend, deseasonalized, weights []float64, period int) {
	window := period
	if window%2 == 0 {
		window++
	}
	half := window / 2
	n := len(deseasonalized)
	for i := 0; i < n; i++ {
		var sum, wsum float64
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 || idx >= n {
				continue
			}
			w := weights[idx] * (1 - math.Abs(float64(j))/float64(half+1))
			sum += deseasonalized[idx] * w
			wsum += w
		}
		if wsum > 0 {
			trend[i] = sum / wsum
		}
	}
}

// updateWeights applies the biweight function against six median absolute
// residuals.
func updateWeights(weights, residual []float64) {
	abs := make([]float64, len(residual))
	for i, r := range residual {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	var mad float64
	m := len(abs)
	if m%2 == 0 {
		mad = (abs[m/2-1] + abs[m/2]) / 2
	} else {
		mad = abs[m/2]
	}
	h := 6 * mad
	if h <= 0 {
		return
	}
	for i, r := range residual {
		u := math.Abs(r) / h
		if u < 1 {
			weights[i] = (1 - u*u) * (1 - u*u)
		} else {
			weights[i] = 0
		}
	}
}
