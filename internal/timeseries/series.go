// Package timeseries holds the month-indexed series type shared by every
// analysis. Values are aligned to calendar months; all month arithmetic is
// done on whole months so that day-of-month never matters.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Series is a named sequence of monthly observations. Months are normalized
// to the first of the month in UTC and strictly increase.
type Series struct {
	Months []time.Time
	Values []float64
	Name   string
}

// New builds a series after validating alignment and month ordering.
func New(name string, months []time.Time, values []float64) (*Series, error) {
	if len(months) != len(values) {
		return nil, fmt.Errorf("series %s: %d months vs %d values", name, len(months), len(values))
	}
	norm := make([]time.Time, len(months))
	for i, m := range months {
		norm[i] = MonthStart(m)
		if i > 0 && !norm[i].After(norm[i-1]) {
			return nil, fmt.Errorf("series %s: months not strictly increasing at index %d", name, i)
		}
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{Months: norm, Values: vals, Name: name}, nil
}

func (s *Series) Len() int { return len(s.Values) }

func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance is the sample variance (n-1 denominator).
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(s.Values)-1)
}

func (s *Series) Std() float64 { return math.Sqrt(s.Variance()) }

func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Anomalies returns the series centered on its own mean.
func (s *Series) Anomalies() *Series {
	mean := s.Mean()
	out := s.Copy()
	out.Name = s.Name + "_anomaly"
	for i, v := range s.Values {
		out.Values[i] = v - mean
	}
	return out
}

// ZScores standardizes the anomalies by their sample standard deviation.
// A flat series yields all zeros rather than NaNs.
func (s *Series) ZScores() *Series {
	anom := s.Anomalies()
	std := anom.Std()
	out := anom.Copy()
	out.Name = s.Name + "_z"
	if std == 0 {
		for i := range out.Values {
			out.Values[i] = 0
		}
		return out
	}
	mean := anom.Mean()
	for i, v := range anom.Values {
		out.Values[i] = (v - mean) / std
	}
	return out
}

// Diff returns the first difference, one element shorter.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return &Series{Name: s.Name}
	}
	months := make([]time.Time, len(s.Months)-1)
	vals := make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		months[i-1] = s.Months[i]
		vals[i-1] = s.Values[i] - s.Values[i-1]
	}
	return &Series{Months: months, Values: vals, Name: s.Name}
}

// SeasonalDiff returns the lag-m seasonal difference, m elements shorter.
func (s *Series) SeasonalDiff(m int) *Series {
	if m <= 0 || len(s.Values) <= m {
		return &Series{Name: s.Name}
	}
	months := make([]time.Time, len(s.Months)-m)
	vals := make([]float64, len(s.Values)-m)
	for i := m; i < len(s.Values); i++ {
		months[i-m] = s.Months[i]
		vals[i-m] = s.Values[i] - s.Values[i-m]
	}
	return &Series{Months: months, Values: vals, Name: s.Name}
}

func (s *Series) Copy() *Series {
	months := make([]time.Time, len(s.Months))
	copy(months, s.Months)
	vals := make([]float64, len(s.Values))
	copy(vals, s.Values)
	return &Series{Months: months, Values: vals, Name: s.Name}
}

// Slice returns s[start:end) as a copy.
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}
	out := &Series{
		Months: make([]time.Time, end-start),
		Values: make([]float64, end-start),
		Name:   s.Name,
	}
	copy(out.Months, s.Months[start:end])
	copy(out.Values, s.Values[start:end])
	return out
}

// Contiguous reports whether every step is exactly one calendar month.
func (s *Series) Contiguous() bool {
	for i := 1; i < len(s.Months); i++ {
		if !s.Months[i].Equal(s.Months[i-1].AddDate(0, 1, 0)) {
			return false
		}
	}
	return true
}

// MonthStart normalizes t to the first of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthSpan is the inclusive whole-month count from start to end.
// January through March is 3 regardless of the day-of-month on either side.
func MonthSpan(start, end time.Time) int {
	s, e := MonthStart(start), MonthStart(end)
	return (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month()) + 1
}
