package trend

import (
	"errors"
	"math"
	"testing"

	"thermopoll/internal/model"
	"thermopoll/internal/stats"
)

func TestMannKendallIncreasing(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	res, err := MannKendall(values)
	if err != nil {
		t.Fatalf("mann-kendall: %v", err)
	}
	if res.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", res.Trend)
	}
	if res.S != 45 {
		t.Errorf("s = %v, want 45 concordant pairs", res.S)
	}
	if math.Abs(res.VarS-125) > 1e-9 {
		t.Errorf("var(s) = %v, want 125", res.VarS)
	}
	if math.Abs(res.Z-44/math.Sqrt(125)) > 1e-9 {
		t.Errorf("z = %v, want %v", res.Z, 44/math.Sqrt(125))
	}
	if res.P > 0.001 {
		t.Errorf("p = %v, want < 0.001", res.P)
	}
}

func TestMannKendallDecreasing(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	res, err := MannKendall(values)
	if err != nil {
		t.Fatalf("mann-kendall: %v", err)
	}
	if res.Trend != "decreasing" {
		t.Errorf("trend = %q, want decreasing", res.Trend)
	}
	if res.S != -45 {
		t.Errorf("s = %v, want -45", res.S)
	}
	if res.Z >= 0 {
		t.Errorf("z = %v, want negative", res.Z)
	}
}

func TestMannKendallConstant(t *testing.T) {
	res, err := MannKendall([]float64{5, 5, 5, 5, 5})
	if err != nil {
		t.Fatalf("mann-kendall: %v", err)
	}
	if res.Trend != "no trend" {
		t.Errorf("trend = %q, want no trend", res.Trend)
	}
	if res.S != 0 || res.Z != 0 {
		t.Errorf("s/z = %v/%v, want 0/0 under full ties", res.S, res.Z)
	}
	if res.P != 1 {
		t.Errorf("p = %v, want 1", res.P)
	}
}

func TestMannKendallShortSample(t *testing.T) {
	if _, err := MannKendall([]float64{1}); !errors.Is(err, stats.ErrShortSample) {
		t.Fatalf("err = %v, want ErrShortSample", err)
	}
}

func TestSenSlope(t *testing.T) {
	line := make([]float64, 8)
	for i := range line {
		line[i] = 3*float64(i) + 2
	}
	sen, err := SenSlope(line)
	if err != nil {
		t.Fatalf("sen slope: %v", err)
	}
	if math.Abs(sen-3) > 1e-12 {
		t.Errorf("sen = %v, want 3 on a straight line", sen)
	}

	sen, err = SenSlope([]float64{1, 2, 4})
	if err != nil {
		t.Fatalf("sen slope: %v", err)
	}
	if math.Abs(sen-1.5) > 1e-12 {
		t.Errorf("sen = %v, want the median pairwise slope 1.5", sen)
	}

	sen, err = SenSlope([]float64{1, 2, 3, 5})
	if err != nil {
		t.Fatalf("sen slope: %v", err)
	}
	if math.Abs(sen-7.0/6.0) > 1e-12 {
		t.Errorf("sen = %v, want 7/6 averaging the middle pair", sen)
	}

	if _, err := SenSlope([]float64{1}); !errors.Is(err, stats.ErrShortSample) {
		t.Errorf("err = %v, want ErrShortSample", err)
	}
}

func TestAnalyzeAnnualizesSenSlope(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 0.5 * float64(i)
	}
	ts, err := Analyze(model.VariableLST, values, 12)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if ts.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", ts.Trend)
	}
	if math.Abs(ts.SenSlope-0.5) > 1e-12 {
		t.Errorf("sen = %v, want 0.5 per month", ts.SenSlope)
	}
	if math.Abs(ts.AnnualChange-6) > 1e-12 {
		t.Errorf("annual change = %v, want 6 per year", ts.AnnualChange)
	}
	if math.Abs(ts.Slope-0.5) > 1e-9 {
		t.Errorf("ols slope = %v, want 0.5", ts.Slope)
	}
	if ts.RSquared < 1-1e-9 {
		t.Errorf("r2 = %v, want 1 on a straight line", ts.RSquared)
	}
	if ts.Significance != "***" {
		t.Errorf("significance = %q, want ***", ts.Significance)
	}
	if ts.N != 24 {
		t.Errorf("n = %d, want 24", ts.N)
	}
}

func TestAnalyzeShortSample(t *testing.T) {
	if _, err := Analyze(model.VariableAOD, []float64{1, 2}, 12); !errors.Is(err, stats.ErrShortSample) {
		t.Fatalf("err = %v, want ErrShortSample via the regression step", err)
	}
}
