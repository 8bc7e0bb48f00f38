// Package events finds sustained exceedance episodes in monthly anomaly
// series: heatwaves on the LST side, high-pollution spells on the AOD side.
//
// An episode is a maximal run of consecutive months whose values exceed a
// threshold, kept only when it spans at least a configured number of months.
// Two thresholding modes exist and they read different scales: percentile
// mode thresholds mean-centered anomalies at a percentile of their own
// distribution, z-score mode thresholds standardized values at a fixed
// cutoff. The Anomalies and ZScores input types keep those scales from
// being swapped at a call site.
package events

import (
	"errors"
	"fmt"
	"time"

	"thermopoll/internal/model"
	"thermopoll/internal/stats"
	"thermopoll/internal/timeseries"
)

// Method selects how the detection threshold is derived.
type Method string

const (
	MethodPercentile Method = "percentile"
	MethodZScore     Method = "zscore"
)

// ErrUnknownMethod reports a detection method outside the supported set.
var ErrUnknownMethod = errors.New("unknown detection method")

// Anomalies is a mean-centered monthly series, the scale percentile
// thresholding is defined on.
type Anomalies struct {
	Series *timeseries.Series
}

// ZScores is a standardized monthly series, the scale z-score thresholding
// is defined on.
type ZScores struct {
	Series *timeseries.Series
}

// NewAnomalies centers a raw monthly series on its own mean.
func NewAnomalies(raw *timeseries.Series) Anomalies {
	return Anomalies{Series: raw.Anomalies()}
}

// NewZScores standardizes a raw monthly series.
func NewZScores(raw *timeseries.Series) ZScores {
	return ZScores{Series: raw.ZScores()}
}

// Options control thresholding and the minimum episode length.
type Options struct {
	Percentile        float64
	ZThreshold        float64
	MinDurationMonths int
}

// DefaultOptions mirror the study configuration: the 90th percentile, a
// 1.5 sigma cutoff and a two month minimum duration.
func DefaultOptions() Options {
	return Options{Percentile: 90, ZThreshold: 1.5, MinDurationMonths: 2}
}

// Detector applies one set of detection options to monthly series.
type Detector struct {
	opts Options
}

// New returns a detector, substituting defaults for unset options.
func New(opts Options) *Detector {
	def := DefaultOptions()
	if opts.Percentile <= 0 || opts.Percentile >= 100 {
		opts.Percentile = def.Percentile
	}
	if opts.ZThreshold <= 0 {
		opts.ZThreshold = def.ZThreshold
	}
	if opts.MinDurationMonths < 1 {
		opts.MinDurationMonths = def.MinDurationMonths
	}
	return &Detector{opts: opts}
}

// Detection is the outcome of one detector pass over one series. Events are
// chronological and non-overlapping; Mask is aligned to the input months and
// marks every month above threshold, including those inside runs too short
// to qualify as events.
type Detection struct {
	Variable  model.Variable
	Method    Method
	Threshold float64
	Months    []time.Time
	Mask      []bool
	Events    []model.Event
}

// Detect derives the scale method requires from the raw series and runs the
// detector. Unknown methods are rejected before any computation.
func (d *Detector) Detect(variable model.Variable, raw *timeseries.Series, method Method) (*Detection, error) {
	switch method {
	case MethodPercentile:
		return d.DetectPercentile(variable, NewAnomalies(raw))
	case MethodZScore:
		return d.DetectZScore(variable, NewZScores(raw))
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, method)
	}
}

// DetectPercentile thresholds anomalies at the configured percentile of
// their own distribution.
func (d *Detector) DetectPercentile(variable model.Variable, a Anomalies) (*Detection, error) {
	if a.Series == nil || a.Series.Len() == 0 {
		return &Detection{Variable: variable, Method: MethodPercentile}, nil
	}
	threshold, err := stats.Percentile(a.Series.Values, d.opts.Percentile)
	if err != nil {
		return nil, fmt.Errorf("percentile threshold: %w", err)
	}
	return d.scan(variable, MethodPercentile, a.Series, threshold), nil
}

// DetectZScore thresholds standardized values at the configured cutoff.
func (d *Detector) DetectZScore(variable model.Variable, z ZScores) (*Detection, error) {
	if z.Series == nil || z.Series.Len() == 0 {
		return &Detection{Variable: variable, Method: MethodZScore}, nil
	}
	return d.scan(variable, MethodZScore, z.Series, d.opts.ZThreshold), nil
}

// scan walks the mask left to right with a single open/closed state. A
// false-to-true transition opens a candidate at the current month; a
// true-to-false transition closes it at the previous month; a run still open
// at the last index closes on the final month. Candidates shorter than the
// minimum duration are dropped whole, never merged with neighbours.
func (d *Detector) scan(variable model.Variable, method Method, s *timeseries.Series, threshold float64) *Detection {
	mask := make([]bool, s.Len())
	for i, v := range s.Values {
		mask[i] = v > threshold
	}

	det := &Detection{
		Variable:  variable,
		Method:    method,
		Threshold: threshold,
		Months:    s.Months,
		Mask:      mask,
	}

	flush := func(start, end int) {
		ev := model.Event{
			Variable: variable,
			Method:   string(method),
			Start:    s.Months[start],
			End:      s.Months[end],
			Months:   timeseries.MonthSpan(s.Months[start], s.Months[end]),
			Peak:     peak(s.Values[start : end+1]),
		}
		if ev.Months >= d.opts.MinDurationMonths {
			det.Events = append(det.Events, ev)
		}
	}

	open := false
	start := 0
	for i, hit := range mask {
		if hit && !open {
			open = true
			start = i
		} else if !hit && open {
			open = false
			flush(start, i-1)
		}
	}
	if open {
		flush(start, len(mask)-1)
	}
	return det
}

func peak(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
