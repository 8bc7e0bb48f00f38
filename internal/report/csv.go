// Package report writes the analysis tables: CSV for plain exports, XLSX
// for the annotated relationship and trend workbooks, and the model order
// text file.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"thermopoll/internal/model"
)

// monthLayout matches the year-month rendering used in every exported
// table and event summary.
const monthLayout = "2006-01"

// WriteCSV writes one header row followed by the data rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SummaryCSV writes one descriptive summary table.
func SummaryCSV(path string, stats []model.SummaryStats) error {
	header := []string{"variable", "n", "mean", "min", "max", "std_dev", "median", "skewness", "kurtosis"}
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			string(s.Variable),
			strconv.Itoa(s.N),
			fmtFloat(s.Mean),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
			fmtFloat(s.StdDev),
			fmtFloat(s.Median),
			fmtFloat(s.Skewness),
			fmtFloat(s.Kurtosis),
		}
	}
	return WriteCSV(path, header, rows)
}

// TrendStatisticsCSV writes the monthly trend table in the column order the
// study publishes.
func TrendStatisticsCSV(path string, stats []model.TrendStats) error {
	header := []string{"variable", "trend", "p_value", "sen_slope", "annual_change", "slope", "intercept", "r_squared", "z_statistic"}
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			DisplayName(s.Variable),
			s.Trend,
			fmtFloat(s.PValue),
			fmtFloat(s.SenSlope),
			fmtFloat(s.AnnualChange),
			fmtFloat(s.Slope),
			fmtFloat(s.Intercept),
			fmtFloat(s.RSquared),
			fmtFloat(s.ZStatistic),
		}
	}
	return WriteCSV(path, header, rows)
}

// CompletenessRow explains which data period one analysis component used.
type CompletenessRow struct {
	Component string
	Period    string
	Reason    string
	Status    string
}

// CompletenessCSV writes the data completeness report accompanying the
// yearly analyses.
func CompletenessCSV(path string, rows []CompletenessRow) error {
	header := []string{"Analysis_Component", "Data_Period_Used", "Reason", "Excluded_Data_Status"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Component, r.Period, r.Reason, r.Status}
	}
	return WriteCSV(path, header, out)
}

// EventsCSV writes one row per detected event.
func EventsCSV(path string, evs []model.Event) error {
	header := []string{"variable", "method", "start", "end", "duration_months", "peak"}
	rows := make([][]string, len(evs))
	for i, ev := range evs {
		rows[i] = []string{
			string(ev.Variable),
			ev.Method,
			ev.Start.Format(monthLayout),
			ev.End.Format(monthLayout),
			strconv.Itoa(ev.Months),
			fmtFloat(ev.Peak),
		}
	}
	return WriteCSV(path, header, rows)
}

// ForecastCSV writes the forecast path with its confidence bounds.
func ForecastCSV(path string, points []model.ForecastPoint, confidence float64) error {
	pct := fmt.Sprintf("%.0f", confidence*100)
	header := []string{"month", "forecast", "lower_" + pct, "upper_" + pct}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			p.Month.Format(monthLayout),
			fmtFloat(p.Value),
			fmtFloat(p.Lower),
			fmtFloat(p.Upper),
		}
	}
	return WriteCSV(path, header, rows)
}

// DisplayName renders a variable the way the published tables and figure
// titles spell it.
func DisplayName(v model.Variable) string {
	switch v {
	case model.VariableAOD:
		return "Aerosol Optical Depth (AOD)"
	case model.VariableLST:
		return "Land Surface Temperature (LST)"
	}
	return string(v)
}

func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
