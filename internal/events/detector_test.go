package events

import (
	"errors"
	"testing"
	"time"

	"thermopoll/internal/model"
	"thermopoll/internal/timeseries"
)

func monthlySeries(t *testing.T, year int, month time.Month, values []float64) *timeseries.Series {
	t.Helper()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, len(values))
	for i := range values {
		months[i] = start.AddDate(0, i, 0)
	}
	s, err := timeseries.New("test", months, values)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func TestDetectPercentileSustainedRun(t *testing.T) {
	s := monthlySeries(t, 2020, time.January, []float64{0, 0, 5, 5, 5, 0, 0, 5, 0})
	det := New(Options{Percentile: 50, MinDurationMonths: 2})

	got, err := det.DetectPercentile(model.VariableLST, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if got.Threshold != 0 {
		t.Fatalf("threshold = %v, want 0", got.Threshold)
	}
	wantMask := []bool{false, false, true, true, true, false, false, true, false}
	if len(got.Mask) != len(wantMask) {
		t.Fatalf("mask length = %d, want %d", len(got.Mask), len(wantMask))
	}
	for i, want := range wantMask {
		if got.Mask[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, got.Mask[i], want)
		}
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1 (single-month run must be dropped)", len(got.Events))
	}
	ev := got.Events[0]
	if !ev.Start.Equal(time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want 2020-03", ev.Start)
	}
	if !ev.End.Equal(time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want 2020-05", ev.End)
	}
	if ev.Months != 3 {
		t.Errorf("months = %d, want 3", ev.Months)
	}
	if ev.Peak != 5 {
		t.Errorf("peak = %v, want 5", ev.Peak)
	}
}

func TestDetectRunOpenAtEnd(t *testing.T) {
	s := monthlySeries(t, 2021, time.January, []float64{0, 0, 0, 4, 4})
	det := New(Options{Percentile: 50, MinDurationMonths: 2})

	got, err := det.DetectPercentile(model.VariableAOD, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(got.Events))
	}
	ev := got.Events[0]
	if !ev.End.Equal(time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want the final month", ev.End)
	}
	if ev.Months != 2 {
		t.Errorf("months = %d, want 2", ev.Months)
	}
}

func TestDetectTwoRunsStayOrdered(t *testing.T) {
	s := monthlySeries(t, 2019, time.January, []float64{5, 5, 0, 0, 6, 6, 6, 0})
	det := New(Options{Percentile: 25, MinDurationMonths: 2})

	got, err := det.DetectPercentile(model.VariableLST, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(got.Events))
	}
	first, second := got.Events[0], got.Events[1]
	if !first.End.Before(second.Start) {
		t.Fatalf("events overlap or out of order: %v .. %v then %v", first.Start, first.End, second.Start)
	}
	if first.Peak != 5 || second.Peak != 6 {
		t.Errorf("peaks = %v, %v, want 5, 6", first.Peak, second.Peak)
	}
	if first.Months != 2 || second.Months != 3 {
		t.Errorf("durations = %d, %d, want 2, 3", first.Months, second.Months)
	}
}

func TestDetectValueEqualToThresholdNotFlagged(t *testing.T) {
	// The 75th percentile of {0, 0, 5, 5} is exactly 5; the mask is strict.
	s := monthlySeries(t, 2020, time.January, []float64{0, 5, 5, 0})
	det := New(Options{Percentile: 75, MinDurationMonths: 2})

	got, err := det.DetectPercentile(model.VariableLST, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for i, hit := range got.Mask {
		if hit {
			t.Errorf("mask[%d] flagged a value equal to the threshold", i)
		}
	}
	if len(got.Events) != 0 {
		t.Fatalf("events = %d, want 0", len(got.Events))
	}
}

func TestDetectShortRunsDroppedWhole(t *testing.T) {
	s := monthlySeries(t, 2020, time.January, []float64{0, 5, 5, 0, 0, 5, 5, 0})
	det := New(Options{Percentile: 50, MinDurationMonths: 3})

	got, err := det.DetectPercentile(model.VariableLST, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got.Events) != 0 {
		t.Fatalf("events = %d, want 0 (runs below minimum are never merged)", len(got.Events))
	}
}

func TestDetectZScoreUsesFixedCutoff(t *testing.T) {
	s := monthlySeries(t, 2022, time.January, []float64{0, 0, 2, 2, 0})
	det := New(Options{ZThreshold: 1.5, MinDurationMonths: 2})

	got, err := det.DetectZScore(model.VariableLST, ZScores{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if got.Threshold != 1.5 {
		t.Fatalf("threshold = %v, want the configured cutoff", got.Threshold)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(got.Events))
	}
	if got.Events[0].Months != 2 {
		t.Errorf("months = %d, want 2", got.Events[0].Months)
	}
}

func TestDetectUnknownMethod(t *testing.T) {
	s := monthlySeries(t, 2020, time.January, []float64{1, 2, 3})
	det := New(Options{})

	_, err := det.Detect(model.VariableLST, s, Method("banana"))
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestDetectEmptySeries(t *testing.T) {
	s, err := timeseries.New("empty", nil, nil)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	det := New(Options{})

	got, err := det.DetectPercentile(model.VariableAOD, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got.Events) != 0 || len(got.Mask) != 0 {
		t.Fatalf("expected empty detection, got %d events, %d mask entries", len(got.Events), len(got.Mask))
	}
}

func TestDetectDurationSpansYearBoundary(t *testing.T) {
	values := make([]float64, 13) // Jan 2020 .. Jan 2021
	values[10], values[11], values[12] = 3, 3, 3
	s := monthlySeries(t, 2020, time.January, values)
	det := New(Options{Percentile: 50, MinDurationMonths: 2})

	got, err := det.DetectPercentile(model.VariableLST, Anomalies{Series: s})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(got.Events))
	}
	ev := got.Events[0]
	if ev.Months != 3 {
		t.Errorf("months = %d, want 3 across the year boundary", ev.Months)
	}
	if ev.Start.Year() != 2020 || ev.End.Year() != 2021 {
		t.Errorf("span = %v .. %v, want Nov 2020 .. Jan 2021", ev.Start, ev.End)
	}
}
