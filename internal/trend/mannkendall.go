// Package trend implements the monotonic-trend tests the study reports for
// the monthly and yearly series: the Mann-Kendall original test, Sen's
// slope, and the least-squares trend line fitted alongside them.
package trend

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"thermopoll/internal/stats"
)

// Alpha is the significance level for trend classification.
const Alpha = 0.05

// MKResult is the outcome of the Mann-Kendall original test.
type MKResult struct {
	Trend string
	P     float64
	Z     float64
	S     float64
	VarS  float64
}

// MannKendall runs the original (tie-corrected, no autocorrelation
// adjustment) Mann-Kendall test.
func MannKendall(values []float64) (MKResult, error) {
	n := len(values)
	if n < 2 {
		return MKResult{}, stats.ErrShortSample
	}
	var s float64
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case values[j] > values[i]:
				s++
			case values[j] < values[i]:
				s--
			}
		}
	}

	ties := make(map[float64]float64)
	for _, v := range values {
		ties[v]++
	}
	nf := float64(n)
	varS := nf * (nf - 1) * (2*nf + 5)
	for _, tp := range ties {
		if tp > 1 {
			varS -= tp * (tp - 1) * (2*tp + 5)
		}
	}
	varS /= 18

	var z float64
	switch {
	case s > 0:
		z = (s - 1) / math.Sqrt(varS)
	case s < 0:
		z = (s + 1) / math.Sqrt(varS)
	}

	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	res := MKResult{Trend: "no trend", P: p, Z: z, S: s, VarS: varS}
	h := math.Abs(z) > distuv.UnitNormal.Quantile(1-Alpha/2)
	if h && z > 0 {
		res.Trend = "increasing"
	} else if h && z < 0 {
		res.Trend = "decreasing"
	}
	return res, nil
}
