package stats

import (
	"errors"
	"math"
	"testing"
)

func TestPearsonKnownValue(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 3, 2, 5, 4}
	r, p, err := Pearson(x, y)
	if err != nil {
		t.Fatalf("pearson: %v", err)
	}
	if math.Abs(r-0.8) > 1e-12 {
		t.Errorf("r = %v, want 0.8", r)
	}
	// t = 0.8*sqrt(3/0.36) ~ 2.31 on 3 df is not significant at 0.05.
	if p <= 0.05 || p >= 0.2 {
		t.Errorf("p = %v, want in (0.05, 0.2)", p)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{2, 4, 6}
	r, p, err := Pearson(x, y)
	if err != nil {
		t.Fatalf("pearson: %v", err)
	}
	if math.Abs(r-1) > 1e-12 {
		t.Errorf("r = %v, want 1", r)
	}
	if p > 1e-6 {
		t.Errorf("p = %v, want ~0 for a perfect fit", p)
	}
}

func TestPearsonShortSample(t *testing.T) {
	_, _, err := Pearson([]float64{1, 2}, []float64{3, 4})
	if !errors.Is(err, ErrShortSample) {
		t.Fatalf("err = %v, want ErrShortSample", err)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	_, _, err := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	if err == nil {
		t.Fatal("expected an error for a constant sample")
	}
	if errors.Is(err, ErrShortSample) {
		t.Fatalf("err = %v, want a variance error, not ErrShortSample", err)
	}
}

func TestSpearmanAveragesTiedRanks(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{5, 6, 7, 8, 7}
	rho, _, err := Spearman(x, y)
	if err != nil {
		t.Fatalf("spearman: %v", err)
	}
	// y ranks are [1 2 3.5 5 3.5]; the rank correlation is 8/sqrt(95).
	want := 8 / math.Sqrt(95)
	if math.Abs(rho-want) > 1e-9 {
		t.Errorf("rho = %v, want %v", rho, want)
	}
}

func TestSpearmanMonotone(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 10, 100, 1000, 10000}
	rho, p, err := Spearman(x, y)
	if err != nil {
		t.Fatalf("spearman: %v", err)
	}
	if math.Abs(rho-1) > 1e-12 {
		t.Errorf("rho = %v, want 1 for any monotone map", rho)
	}
	if p > 1e-6 {
		t.Errorf("p = %v, want ~0", p)
	}
}

func TestLagPairsAlignment(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 20, 30, 40, 50}

	xs, ys := LagPairs(x, y, 2)
	if len(xs) != 3 || xs[0] != 1 || ys[0] != 30 {
		t.Errorf("lag +2: xs=%v ys=%v, want x leading y by two steps", xs, ys)
	}

	xs, ys = LagPairs(x, y, -2)
	if len(xs) != 3 || xs[0] != 3 || ys[0] != 10 {
		t.Errorf("lag -2: xs=%v ys=%v, want x trailing y by two steps", xs, ys)
	}

	xs, ys = LagPairs(x, y, 0)
	if len(xs) != 5 || len(ys) != 5 {
		t.Errorf("lag 0: %d/%d pairs, want the full overlap", len(xs), len(ys))
	}

	xs, ys = LagPairs(x, y, 5)
	if xs != nil || ys != nil {
		t.Errorf("lag beyond the sample returned %v/%v, want nil", xs, ys)
	}
}

func TestLaggedCorrelationsTableOrder(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 1, 4, 3, 6, 5, 8, 7}
	cells, err := LaggedCorrelations(x, y, 2)
	if err != nil {
		t.Fatalf("lagged correlations: %v", err)
	}
	wantLags := []int{0, 0, 1, 1, -1, -1, 2, 2, -2, -2}
	if len(cells) != len(wantLags) {
		t.Fatalf("cells = %d, want %d", len(cells), len(wantLags))
	}
	for i, c := range cells {
		if c.Lag != wantLags[i] {
			t.Errorf("cell %d lag = %d, want %d", i, c.Lag, wantLags[i])
		}
		wantMethod := "pearson"
		if i%2 == 1 {
			wantMethod = "spearman"
		}
		if c.Method != wantMethod {
			t.Errorf("cell %d method = %q, want %q", i, c.Method, wantMethod)
		}
	}
	if cells[0].N != 8 || cells[2].N != 7 || cells[6].N != 6 {
		t.Errorf("overlap sizes = %d/%d/%d, want 8/7/6", cells[0].N, cells[2].N, cells[6].N)
	}
}

func TestLaggedCorrelationsShortOverlapAborts(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{4, 3, 2, 1}
	_, err := LaggedCorrelations(x, y, 2)
	if !errors.Is(err, ErrShortSample) {
		t.Fatalf("err = %v, want ErrShortSample once the overlap drops below three", err)
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.0005, "***"},
		{0.001, "***"},
		{0.005, "**"},
		{0.01, "**"},
		{0.03, "*"},
		{0.05, "*"},
		{0.0501, "ns"},
		{0.5, "ns"},
	}
	for _, tc := range cases {
		if got := Stars(tc.p); got != tc.want {
			t.Errorf("Stars(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}
