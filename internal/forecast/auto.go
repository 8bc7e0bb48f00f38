package forecast

import (
	"errors"
	"math"

	"thermopoll/internal/stats"
	"thermopoll/internal/timeseries"
)

// SearchResult is the outcome of the stepwise order search.
type SearchResult struct {
	Order           Order
	Model           *Model
	AIC             float64
	ModelsEvaluated int
}

// AutoOrder runs a stepwise search over (p,q)(P,Q) with the differencing
// orders fixed up front: d by repeated differencing while it keeps reducing
// the variance, D by the strength of the autocorrelation at the seasonal
// lag. The search starts from a handful of simple specifications and walks
// to neighbors while the AIC improves, the usual stepwise shortcut through
// the full grid.
func AutoOrder(series *timeseries.Series, bounds Order) (*SearchResult, error) {
	if bounds.M < 2 {
		return nil, errors.New("auto order: seasonal period must be >= 2")
	}
	d := chooseD(series, bounds.D)
	sd := chooseSeasonalD(series, bounds.SD, bounds.M)

	type spec struct{ p, q, sp, sq int }
	starts := []spec{
		{0, 0, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{1, 1, 1, 1},
		{2, 2, 1, 1},
	}

	inBounds := func(s spec) bool {
		return s.p >= 0 && s.p <= bounds.P &&
			s.q >= 0 && s.q <= bounds.Q &&
			s.sp >= 0 && s.sp <= bounds.SP &&
			s.sq >= 0 && s.sq <= bounds.SQ
	}

	best := &SearchResult{AIC: math.Inf(1)}
	tried := map[spec]bool{}
	evaluate := func(s spec) bool {
		if !inBounds(s) || tried[s] {
			return false
		}
		tried[s] = true
		order := Order{P: s.p, D: d, Q: s.q, SP: s.sp, SD: sd, SQ: s.sq, M: bounds.M}
		m, err := Fit(series, order)
		if err != nil {
			return false
		}
		best.ModelsEvaluated++
		if m.AIC < best.AIC {
			best.Order = order
			best.Model = m
			best.AIC = m.AIC
			return true
		}
		return false
	}

	for _, s := range starts {
		evaluate(s)
	}
	if best.Model == nil {
		return nil, errors.New("auto order: no candidate model could be fitted")
	}

	improved := true
	for improved {
		improved = false
		b := spec{best.Order.P, best.Order.Q, best.Order.SP, best.Order.SQ}
		neighbors := []spec{
			{b.p + 1, b.q, b.sp, b.sq},
			{b.p - 1, b.q, b.sp, b.sq},
			{b.p, b.q + 1, b.sp, b.sq},
			{b.p, b.q - 1, b.sp, b.sq},
			{b.p, b.q, b.sp + 1, b.sq},
			{b.p, b.q, b.sp - 1, b.sq},
			{b.p, b.q, b.sp, b.sq + 1},
			{b.p, b.q, b.sp, b.sq - 1},
		}
		for _, s := range neighbors {
			if evaluate(s) {
				improved = true
			}
		}
	}
	return best, nil
}

// chooseD differences while the sample variance keeps dropping, up to maxD.
// Over-differencing inflates variance, so the first non-reducing step
// stops the search.
func chooseD(series *timeseries.Series, maxD int) int {
	current := series
	for d := 0; d < maxD; d++ {
		next := current.Diff()
		if next.Len() < 10 {
			return d
		}
		if next.Variance() >= current.Variance() {
			return d
		}
		current = next
	}
	return maxD
}

// chooseSeasonalD applies one seasonal difference when the autocorrelation
// at the seasonal lag is strong.
func chooseSeasonalD(series *timeseries.Series, maxSD, period int) int {
	if maxSD < 1 {
		return 0
	}
	acf := stats.ACF(series.Values, period)
	if len(acf) > period && math.Abs(acf[period]) > 0.5 {
		return 1
	}
	return 0
}
