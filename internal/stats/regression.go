package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression is an ordinary least-squares fit of y on x with the usual
// single-predictor diagnostics.
type Regression struct {
	Slope     float64
	Intercept float64
	R         float64
	RSquared  float64
	PValue    float64
	StdErr    float64
	N         int
}

// Linregress fits y = intercept + slope*x. The p-value is the two-sided
// test of a zero slope on n-2 degrees of freedom; StdErr is the standard
// error of the slope.
func Linregress(x, y []float64) (Regression, error) {
	if len(x) != len(y) {
		return Regression{}, fmt.Errorf("linregress: %d vs %d samples", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return Regression{}, ErrShortSample
	}
	sx := stat.StdDev(x, nil)
	sy := stat.StdDev(y, nil)
	if sx == 0 {
		return Regression{}, errors.New("linregress: predictor has zero variance")
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r := 0.0
	if sy > 0 {
		r = stat.Correlation(x, y, nil)
	}
	reg := Regression{
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  r * r,
		N:         n,
	}
	df := float64(n - 2)
	reg.StdErr = math.Sqrt((1-r*r)/df) * sy / sx
	if reg.StdErr == 0 {
		reg.PValue = 0
		return reg, nil
	}
	t := slope / reg.StdErr
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	reg.PValue = 2 * dist.Survival(math.Abs(t))
	return reg, nil
}

// Predict evaluates the fitted line.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// Residuals returns y - fitted for aligned samples.
func (r Regression) Residuals(x, y []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = y[i] - r.Predict(x[i])
	}
	return out
}
