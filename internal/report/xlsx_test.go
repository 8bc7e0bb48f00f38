package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"thermopoll/internal/forecast"
	"thermopoll/internal/model"
)

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func TestTrendResultsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend_results_with_notes.xlsx")
	rows := []TrendPeriodRow{
		{Variable: "AOD", Trend: "no trend", PValue: 0.75, Significance: "ns", SenSlope: 0.005, Period: "2017-2024 (Complete)"},
		{Variable: "LST (°C)", Trend: "Insufficient data", PValue: math.NaN(), Significance: "N/A", SenSlope: math.NaN(), Period: "2017-2024 (Complete)"},
	}
	require.NoError(t, TrendResultsXLSX(path, rows))

	got := readSheet(t, path)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Variable", "Trend", "p-value", "Significance", "Sen's Slope (/yr)", "Data_Period"}, got[0])
	assert.Equal(t, []string{"AOD", "no trend", "0.75", "ns", "0.005", "2017-2024 (Complete)"}, got[1])
	assert.Equal(t, "Insufficient data", got[2][1])
	assert.Equal(t, "", got[2][2], "NaN p-value leaves the cell empty")
	assert.Equal(t, "N/A", got[2][3])
}

func TestRelationshipXLSXPairsMethods(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relationship_analysis.xlsx")
	cells := []model.Correlation{
		{Method: "pearson", Lag: 0, R: 0.5, PValue: 0.01, N: 96, Significance: "**"},
		{Method: "spearman", Lag: 0, R: 0.25, PValue: 0.25, N: 96, Significance: "ns"},
		{Method: "pearson", Lag: 1, R: 0.75, PValue: 0.005, N: 95, Significance: "**"},
		{Method: "spearman", Lag: 1, R: 0.5, PValue: 0.05, N: 95, Significance: "*"},
		{Method: "pearson", Lag: -1, R: 0.125, PValue: 0.5, N: 95, Significance: "ns"},
		{Method: "spearman", Lag: -1, R: 0.25, PValue: 0.25, N: 95, Significance: "ns"},
	}
	require.NoError(t, RelationshipXLSX(path, cells))

	got := readSheet(t, path)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"X", "Y", "Pearson r", "Pearson p", "Pearson sig", "Spearman rho", "Spearman p", "Spearman sig"}, got[0])
	assert.Equal(t, []string{"AOD", "LST (°C)", "0.5", "0.01", "**", "0.25", "0.25", "ns"}, got[1])
	assert.Equal(t, "AOD (lead 1 mo)", got[2][0])
	assert.Equal(t, "AOD (lag 1 mo)", got[3][0])
}

func TestRegressionXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regression_summary_with_notes.xlsx")
	sum := model.RegressionSummary{
		Slope: 0.5, Intercept: 1.25, R: 0.8, RSquared: 0.64, PValue: 0.125, StdErr: 0.25, N: 8,
		Note: "Complete years only (2025 excluded due to incomplete data)",
	}
	require.NoError(t, RegressionXLSX(path, sum, "2017-2024"))

	got := readSheet(t, path)
	require.Len(t, got, 8)
	assert.Equal(t, []string{"Slope", "0.5"}, got[1])
	assert.Equal(t, []string{"Intercept", "1.25"}, got[2])
	assert.Equal(t, []string{"R-squared", "0.64"}, got[3])
	assert.Equal(t, []string{"Data_Period", "2017-2024"}, got[6])
	assert.Equal(t, "Complete years only (2025 excluded due to incomplete data)", got[7][1])
}

func TestRegressionXLSXPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regression_summary_with_notes.xlsx")
	sum := model.RegressionSummary{
		Slope: math.NaN(), Intercept: math.NaN(), R: math.NaN(),
		RSquared: math.NaN(), PValue: math.NaN(), StdErr: math.NaN(),
		Note: "Insufficient data for regression",
	}
	require.NoError(t, RegressionXLSX(path, sum, "2025"))

	got := readSheet(t, path)
	require.Len(t, got, 8)
	assert.Equal(t, "Slope", got[1][0])
	if len(got[1]) > 1 {
		assert.Equal(t, "", got[1][1])
	}
	assert.Equal(t, "Insufficient data for regression", got[7][1])
}

func TestOrdersFile(t *testing.T) {
	dir := t.TempDir()
	order := forecast.Order{P: 1, D: 1, Q: 1, SP: 0, SD: 1, SQ: 1, M: 12}

	path := filepath.Join(dir, "SARIMAX_orders.txt")
	require.NoError(t, OrdersFile(path, order, false))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.HasPrefix(text, "Optimal SARIMAX model orders found by stepwise search:\n"))
	assert.Contains(t, text, "ARIMA order (p,d,q): (1, 1, 1)")
	assert.Contains(t, text, "Seasonal order (P,D,Q,m): (0, 1, 1, 12)")

	require.NoError(t, OrdersFile(path, order, true))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Fallback SARIMAX orders due to search failure:\n"))
}
