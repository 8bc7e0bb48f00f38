package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"thermopoll/internal/model"
)

// Forecast produces month-dated point forecasts with approximate
// prediction intervals at the given confidence level. Interval width grows
// with the horizon according to the differencing orders.
func (m *Model) Forecast(steps int, confidence float64) ([]model.ForecastPoint, error) {
	if !m.fitted {
		return nil, errors.New("model not fitted")
	}
	if steps < 1 {
		return nil, errors.New("forecast steps must be >= 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	y := m.diffData
	n := len(y)
	extY := make([]float64, n+steps)
	copy(extY, y)
	extRes := make([]float64, n+steps)
	copy(extRes, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		extY[t] = m.forecastAt(extY, extRes, t, n)
		extRes[t] = 0
	}

	values := m.integrate(extY[n:])

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lastMonth := m.data.Months[len(m.data.Months)-1]
	out := make([]model.ForecastPoint, steps)
	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.Variance)
		if m.Order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.Order.SD > 0 && m.Order.M > 0 {
			se *= math.Sqrt(float64(h/m.Order.M + 1))
		}
		out[h] = model.ForecastPoint{
			Month: lastMonth.AddDate(0, h+1, 0),
			Value: values[h],
			Lower: values[h] - z*se,
			Upper: values[h] + z*se,
		}
	}
	return out, nil
}

// forecastAt is predictAt restricted to observed residuals: residuals past
// the sample end are zero by expectation.
func (m *Model) forecastAt(y, residuals []float64, t, n int) float64 {
	pred := m.Intercept
	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.AR[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		lag := (i + 1) * m.Order.M
		if t-lag >= 0 {
			pred += m.SAR[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
		pred += m.MA[i] * residuals[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		lag := (i + 1) * m.Order.M
		if t-lag >= 0 && t-lag < n {
			pred += m.SMA[i] * residuals[t-lag]
		}
	}
	return pred
}

// integrate undoes the differencing applied during fitting. Fitting
// differences non-seasonally first, then seasonally, so integration undoes
// the seasonal stage first against the non-seasonally differenced history,
// then cumulates back onto the original level.
func (m *Model) integrate(forecasts []float64) []float64 {
	d, sd, period := m.Order.D, m.Order.SD, m.Order.M
	original := m.data.Values

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonal := original
	for i := 0; i < d; i++ {
		if len(nonSeasonal) <= 1 {
			break
		}
		next := make([]float64, len(nonSeasonal)-1)
		for j := 1; j < len(nonSeasonal); j++ {
			next[j-1] = nonSeasonal[j] - nonSeasonal[j-1]
		}
		nonSeasonal = next
	}

	if sd > 0 && period > 0 {
		nd := len(nonSeasonal)
		for i := 0; i < sd; i++ {
			for j := range result {
				if j < period {
					idx := nd - period + j
					if idx >= 0 && idx < nd {
						result[j] += nonSeasonal[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := 0; i < d; i++ {
		last := original[len(original)-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}
