package stats

import (
	"math"
	"testing"

	"thermopoll/internal/model"
)

func TestPercentileInterpolates(t *testing.T) {
	cases := []struct {
		values []float64
		pct    float64
		want   float64
	}{
		{[]float64{4, 1, 3, 2}, 50, 2.5},
		{[]float64{4, 1, 3, 2}, 0, 1},
		{[]float64{4, 1, 3, 2}, 100, 4},
		{[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 90, 8.1},
		{[]float64{5}, 50, 5},
	}
	for _, tc := range cases {
		got, err := Percentile(tc.values, tc.pct)
		if err != nil {
			t.Fatalf("Percentile(%v, %v): %v", tc.values, tc.pct, err)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Percentile(%v, %v) = %v, want %v", tc.values, tc.pct, got, tc.want)
		}
	}
}

func TestPercentileErrors(t *testing.T) {
	if _, err := Percentile(nil, 50); err == nil {
		t.Error("expected an error for an empty sample")
	}
	if _, err := Percentile([]float64{1, 2}, -1); err == nil {
		t.Error("expected an error for a negative percentile")
	}
	if _, err := Percentile([]float64{1, 2}, 101); err == nil {
		t.Error("expected an error for a percentile above 100")
	}
}

func TestSummarizeSymmetricSample(t *testing.T) {
	s := Summarize(model.VariableLST, []float64{2, 4, 4, 4, 6})
	if s.N != 5 {
		t.Fatalf("n = %d, want 5", s.N)
	}
	if math.Abs(s.Mean-4) > 1e-12 {
		t.Errorf("mean = %v, want 4", s.Mean)
	}
	if s.Min != 2 || s.Max != 6 {
		t.Errorf("min/max = %v/%v, want 2/6", s.Min, s.Max)
	}
	if s.Median != 4 {
		t.Errorf("median = %v, want 4", s.Median)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-12 {
		t.Errorf("stddev = %v, want sqrt(2)", s.StdDev)
	}
	if math.Abs(s.Skewness) > 1e-12 {
		t.Errorf("skewness = %v, want 0 for a symmetric sample", s.Skewness)
	}
}

func TestSummarizeEvenMedian(t *testing.T) {
	s := Summarize(model.VariableAOD, []float64{1, 2, 3, 4})
	if s.Median != 2.5 {
		t.Errorf("median = %v, want 2.5", s.Median)
	}
}

func TestSummarizeSmallSamples(t *testing.T) {
	empty := Summarize(model.VariableAOD, nil)
	if empty.N != 0 || empty.Mean != 0 {
		t.Errorf("empty summary = %+v, want zero values", empty)
	}

	one := Summarize(model.VariableAOD, []float64{5})
	if one.Mean != 5 || one.Median != 5 || one.Min != 5 || one.Max != 5 {
		t.Errorf("single-value summary = %+v", one)
	}
	if one.StdDev != 0 || one.Skewness != 0 || one.Kurtosis != 0 {
		t.Errorf("single-value moments = %+v, want unset", one)
	}

	three := Summarize(model.VariableAOD, []float64{1, 2, 10})
	if three.Skewness <= 0 {
		t.Errorf("skewness = %v, want positive for a right-tailed triple", three.Skewness)
	}
	if three.Kurtosis != 0 {
		t.Errorf("kurtosis = %v, want unset below four samples", three.Kurtosis)
	}
}
