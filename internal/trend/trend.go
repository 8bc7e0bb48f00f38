package trend

import (
	"fmt"

	"thermopoll/internal/model"
	"thermopoll/internal/stats"
)

// Analyze combines the Mann-Kendall test, Sen's slope, and a least-squares
// fit against the observation index into one reportable record.
// stepsPerYear annualizes the Sen slope: 12 for monthly series, 1 for
// yearly.
func Analyze(variable model.Variable, values []float64, stepsPerYear int) (model.TrendStats, error) {
	mk, err := MannKendall(values)
	if err != nil {
		return model.TrendStats{}, fmt.Errorf("mann-kendall %s: %w", variable, err)
	}
	sen, err := SenSlope(values)
	if err != nil {
		return model.TrendStats{}, fmt.Errorf("sen slope %s: %w", variable, err)
	}
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	reg, err := stats.Linregress(x, values)
	if err != nil {
		return model.TrendStats{}, fmt.Errorf("trend fit %s: %w", variable, err)
	}
	return model.TrendStats{
		Variable:     variable,
		Trend:        mk.Trend,
		PValue:       mk.P,
		ZStatistic:   mk.Z,
		SenSlope:     sen,
		AnnualChange: sen * float64(stepsPerYear),
		Slope:        reg.Slope,
		Intercept:    reg.Intercept,
		RSquared:     reg.RSquared,
		Significance: stats.Stars(mk.P),
		N:            len(values),
	}, nil
}
