// Package forecast fits seasonal ARIMA models to the monthly study series
// by conditional sum of squares and produces month-dated forecasts with
// approximate prediction intervals. Estimation is deliberately lightweight:
// Yule-Walker initialization, then a momentum gradient refinement of the
// conditional sum of squares with coefficients kept inside the unit
// interval.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"thermopoll/internal/stats"
	"thermopoll/internal/timeseries"
)

// Order is a SARIMA (p,d,q)(P,D,Q)m specification. A zero seasonal block
// reduces the model to plain ARIMA.
type Order struct {
	P, D, Q    int
	SP, SD, SQ int
	M          int
}

func (o Order) String() string {
	return fmt.Sprintf("(%d, %d, %d)(%d, %d, %d, %d)", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// params is the total coefficient count including the intercept.
func (o Order) params() int { return o.P + o.Q + o.SP + o.SQ + 1 }

// minObservations is the shortest series the order can be estimated on.
func (o Order) minObservations() int {
	return o.P + o.D + o.Q + (o.SP+o.SD+o.SQ)*o.M + 20
}

// Model is a fitted seasonal ARIMA model.
type Model struct {
	Order     Order
	AR        []float64
	MA        []float64
	SAR       []float64
	SMA       []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	fitted    bool
	data      *timeseries.Series
	diffData  []float64
	residuals []float64
	fittedVal []float64
}

// Fit estimates the model on the series by conditional sum of squares.
func Fit(series *timeseries.Series, order Order) (*Model, error) {
	if order.M < 2 && (order.SP > 0 || order.SD > 0 || order.SQ > 0) {
		return nil, fmt.Errorf("seasonal order %s needs period >= 2", order)
	}
	if series.Len() < order.minObservations() {
		return nil, fmt.Errorf("order %s needs %d observations, have %d", order, order.minObservations(), series.Len())
	}

	m := &Model{
		Order: order,
		AR:    make([]float64, order.P),
		MA:    make([]float64, order.Q),
		SAR:   make([]float64, order.SP),
		SMA:   make([]float64, order.SQ),
		data:  series,
	}

	diff := series
	for i := 0; i < order.D; i++ {
		diff = diff.Diff()
	}
	for i := 0; i < order.SD; i++ {
		diff = diff.SeasonalDiff(order.M)
	}
	if diff.Len() < order.params()+2 {
		return nil, errors.New("differencing left too few observations")
	}
	m.diffData = diff.Values

	m.initCoefficients()
	m.optimize()
	m.informationCriteria()
	m.fitted = true
	return m, nil
}

// initCoefficients seeds the optimizer: Yule-Walker estimates for the AR
// block, damped seasonal autocorrelations for the seasonal AR block, and
// small constants for the MA blocks.
func (m *Model) initCoefficients() {
	y := m.diffData
	var sum float64
	for _, v := range y {
		sum += v
	}
	m.Intercept = sum / float64(len(y))

	if m.Order.P > 0 {
		acf := stats.ACF(y, m.Order.P)
		if phi := yuleWalker(acf, m.Order.P); phi != nil {
			copy(m.AR, phi)
		}
	}
	if m.Order.SP > 0 {
		acf := stats.ACF(y, m.Order.SP*m.Order.M)
		for i := 0; i < m.Order.SP; i++ {
			idx := (i + 1) * m.Order.M
			if idx < len(acf) {
				m.SAR[i] = acf[idx] * 0.5
			}
		}
	}
	for i := range m.MA {
		m.MA[i] = 0.1
	}
	for i := range m.SMA {
		m.SMA[i] = 0.1
	}
}

// predictAt evaluates the one-step prediction at index t of the
// differenced series given the residual history.
func (m *Model) predictAt(y, residuals []float64, t int) float64 {
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
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MA[i] * residuals[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		lag := (i + 1) * m.Order.M
		if t-lag >= 0 {
			pred += m.SMA[i] * residuals[t-lag]
		}
	}
	return pred
}

func (m *Model) optimize() {
	y := m.diffData
	n := len(y)
	p, q, sp, sq := m.Order.P, m.Order.Q, m.Order.SP, m.Order.SQ
	period := m.Order.M

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	rate := 0.005

	start := max(p, q, sp*period, sq*period)
	if start >= n-10 {
		start = 0
	}

	arMom := make([]float64, p)
	maMom := make([]float64, q)
	sarMom := make([]float64, sp)
	smaMom := make([]float64, sq)

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	stall := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		var sse float64
		for t := start; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(y, residuals, t)
			sse += residuals[t] * residuals[t]
		}

		if sse < bestSSE {
			gain := bestSSE - sse
			bestSSE = sse
			copy(bestAR, m.AR)
			copy(bestMA, m.MA)
			copy(bestSAR, m.SAR)
			copy(bestSMA, m.SMA)
			stall = 0
			if gain < tolerance {
				break
			}
		} else {
			stall++
			if stall > 20 {
				break
			}
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)
		for t := start; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for i := 0; i < p; i++ {
			arMom[i] = momentum*arMom[i] + rate*arGrad[i]/float64(n)
			m.AR[i] = clamp(m.AR[i]-arMom[i], -0.99, 0.99)
		}
		for i := 0; i < sp; i++ {
			sarMom[i] = momentum*sarMom[i] + rate*sarGrad[i]/float64(n)
			m.SAR[i] = clamp(m.SAR[i]-sarMom[i], -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			maMom[i] = momentum*maMom[i] + rate*maGrad[i]/float64(n)
			m.MA[i] = clamp(m.MA[i]-maMom[i], -0.99, 0.99)
		}
		for i := 0; i < sq; i++ {
			smaMom[i] = momentum*smaMom[i] + rate*smaGrad[i]/float64(n)
			m.SMA[i] = clamp(m.SMA[i]-smaMom[i], -0.99, 0.99)
		}
		rate *= decay
	}

	copy(m.AR, bestAR)
	copy(m.MA, bestMA)
	copy(m.SAR, bestSAR)
	copy(m.SMA, bestSMA)

	m.residuals = make([]float64, n)
	m.fittedVal = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVal[t] = m.predictAt(y, m.residuals, t)
		m.residuals[t] = y[t] - m.fittedVal[t]
	}

	var sse float64
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if count > m.Order.params() {
		m.Variance = sse / float64(count-m.Order.params())
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

func (m *Model) informationCriteria() {
	n := float64(len(m.residuals))
	k := float64(m.Order.params())

	var sse float64
	for _, r := range m.residuals {
		sse += r * r
	}
	if m.Variance > 0 {
		m.LogLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}
	m.AIC = -2*m.LogLik + 2*k
	if n-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(n-k-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + k*math.Log(n)
}

// Residuals returns a copy of the one-step residuals on the differenced
// scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the in-sample fits on the differenced
// scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.fittedVal))
	copy(out, m.fittedVal)
	return out
}

func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}
	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}
	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v
		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)
		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
