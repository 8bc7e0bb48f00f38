package timeseries

import (
	"math"
	"testing"
	"time"
)

func months(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, i, 0)
	}
	return out
}

func mustSeries(t *testing.T, values []float64) *Series {
	t.Helper()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, err := New("test", months(start, len(values)), values)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func TestNewRejectsLengthMismatch(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := New("bad", months(start, 3), []float64{1, 2}); err == nil {
		t.Fatal("expected an error for mismatched lengths")
	}
}

func TestNewRejectsUnorderedMonths(t *testing.T) {
	idx := []time.Time{
		time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := New("bad", idx, []float64{1, 2}); err == nil {
		t.Fatal("expected an error for out-of-order months")
	}
}

func TestNewRejectsDuplicateMonths(t *testing.T) {
	// Different days within the same month collapse to the same month start.
	idx := []time.Time{
		time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.January, 20, 0, 0, 0, 0, time.UTC),
	}
	if _, err := New("bad", idx, []float64{1, 2}); err == nil {
		t.Fatal("expected an error for duplicate months")
	}
}

func TestNewNormalizesToMonthStart(t *testing.T) {
	idx := []time.Time{time.Date(2020, time.July, 17, 14, 30, 0, 0, time.FixedZone("WAT", 3600))}
	s, err := New("norm", idx, []float64{1})
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	want := time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !s.Months[0].Equal(want) {
		t.Fatalf("month = %v, want %v", s.Months[0], want)
	}
}

func TestDescriptiveMoments(t *testing.T) {
	s := mustSeries(t, []float64{2, 4, 4, 4, 6})
	if got := s.Mean(); math.Abs(got-4) > 1e-12 {
		t.Errorf("mean = %v, want 4", got)
	}
	if got := s.Variance(); math.Abs(got-2) > 1e-12 {
		t.Errorf("variance = %v, want 2 (sample)", got)
	}
	if got := s.Median(); got != 4 {
		t.Errorf("median = %v, want 4", got)
	}
	if got := s.Min(); got != 2 {
		t.Errorf("min = %v, want 2", got)
	}
	if got := s.Max(); got != 6 {
		t.Errorf("max = %v, want 6", got)
	}
}

func TestMinMaxEmptySeries(t *testing.T) {
	s, err := New("empty", nil, nil)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	if !math.IsNaN(s.Min()) || !math.IsNaN(s.Max()) {
		t.Fatalf("min/max = %v/%v, want NaN for an empty series", s.Min(), s.Max())
	}
}

func TestAnomaliesCenterOnMean(t *testing.T) {
	s := mustSeries(t, []float64{1, 2, 3})
	a := s.Anomalies()
	want := []float64{-1, 0, 1}
	for i, w := range want {
		if math.Abs(a.Values[i]-w) > 1e-12 {
			t.Errorf("anomaly[%d] = %v, want %v", i, a.Values[i], w)
		}
	}
	if a.Name != "test_anomaly" {
		t.Errorf("name = %q, want test_anomaly", a.Name)
	}
}

func TestZScoresFlatSeries(t *testing.T) {
	s := mustSeries(t, []float64{7, 7, 7, 7})
	z := s.ZScores()
	for i, v := range z.Values {
		if v != 0 {
			t.Errorf("z[%d] = %v, want 0 for a flat series", i, v)
		}
	}
	if z.Name != "test_z" {
		t.Errorf("name = %q, want test_z", z.Name)
	}
}

func TestZScoresUnitVariance(t *testing.T) {
	s := mustSeries(t, []float64{1, 2, 3, 4, 5})
	z := s.ZScores()
	sum, sumSq := 0.0, 0.0
	for _, v := range z.Values {
		sum += v
		sumSq += v * v
	}
	n := float64(len(z.Values))
	if math.Abs(sum/n) > 1e-12 {
		t.Errorf("z mean = %v, want 0", sum/n)
	}
	if sampleVar := sumSq / (n - 1); math.Abs(sampleVar-1) > 1e-12 {
		t.Errorf("z sample variance = %v, want 1", sampleVar)
	}
}

func TestDiffAndSeasonalDiff(t *testing.T) {
	s := mustSeries(t, []float64{1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 66, 78, 91})
	d := s.Diff()
	if d.Len() != s.Len()-1 {
		t.Fatalf("diff len = %d, want %d", d.Len(), s.Len()-1)
	}
	if d.Values[0] != 2 || d.Values[1] != 3 {
		t.Errorf("diff head = %v, %v, want 2, 3", d.Values[0], d.Values[1])
	}
	sd := s.SeasonalDiff(12)
	if sd.Len() != s.Len()-12 {
		t.Fatalf("seasonal diff len = %d, want %d", sd.Len(), s.Len()-12)
	}
	if sd.Values[0] != 90 {
		t.Errorf("seasonal diff = %v, want 91-1", sd.Values[0])
	}
}

func TestContiguous(t *testing.T) {
	s := mustSeries(t, []float64{1, 2, 3})
	if !s.Contiguous() {
		t.Fatal("consecutive months reported a gap")
	}
	idx := []time.Time{
		time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	gapped, err := New("gap", idx, []float64{1, 2})
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	if gapped.Contiguous() {
		t.Fatal("missing months went undetected")
	}
}

func TestSliceClampsAndCopies(t *testing.T) {
	s := mustSeries(t, []float64{1, 2, 3, 4})
	sub := s.Slice(1, 99)
	if sub.Len() != 3 {
		t.Fatalf("slice len = %d, want 3", sub.Len())
	}
	sub.Values[0] = -1
	if s.Values[1] != 2 {
		t.Fatal("slice aliases the parent series")
	}
}

func TestMonthSpanInclusive(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2017, time.January, 15, 0, 0, 0, 0, time.UTC), time.Date(2017, time.December, 3, 0, 0, 0, 0, time.UTC), 12},
	}
	for _, tc := range cases {
		if got := MonthSpan(tc.start, tc.end); got != tc.want {
			t.Errorf("MonthSpan(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}
