package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"thermopoll/internal/model"
)

// RelationshipXLSX writes the lead/lag correlation workbook, one row per
// lag with the Pearson and Spearman results side by side, in the order the
// cells were computed.
func RelationshipXLSX(path string, cells []model.Correlation) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"X", "Y", "Pearson r", "Pearson p", "Pearson sig", "Spearman rho", "Spearman p", "Spearman sig"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	type pair struct {
		lag      int
		pearson  *model.Correlation
		spearman *model.Correlation
	}
	index := make(map[int]int)
	var pairs []pair
	for i := range cells {
		c := &cells[i]
		j, ok := index[c.Lag]
		if !ok {
			j = len(pairs)
			index[c.Lag] = j
			pairs = append(pairs, pair{lag: c.Lag})
		}
		switch c.Method {
		case "pearson":
			pairs[j].pearson = c
		case "spearman":
			pairs[j].spearman = c
		}
	}

	for i, p := range pairs {
		row := []interface{}{lagLabel(p.lag), "LST (°C)"}
		row = append(row, correlationCells(p.pearson)...)
		row = append(row, correlationCells(p.spearman)...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := styleHeader(f, sheet); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// TrendPeriodRow is one line of the yearly trend workbook: a variable's
// Mann-Kendall outcome over one data period.
type TrendPeriodRow struct {
	Variable     string
	Trend        string
	PValue       float64
	Significance string
	SenSlope     float64
	Period       string
}

// TrendResultsXLSX writes the yearly trend workbook with its data period
// notes.
func TrendResultsXLSX(path string, rows []TrendPeriodRow) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"Variable", "Trend", "p-value", "Significance", "Sen's Slope (/yr)", "Data_Period"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		row := []interface{}{r.Variable, r.Trend, cellValue(r.PValue), r.Significance, cellValue(r.SenSlope), r.Period}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := styleHeader(f, sheet); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// RegressionXLSX writes the yearly regression summary as Statistic/Value
// pairs. NaN statistics leave their value cells empty, so a summary that
// could not be computed renders as the placeholder table with its note.
func RegressionXLSX(path string, sum model.RegressionSummary, period string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"Statistic", "Value"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Slope", cellValue(sum.Slope)},
		{"Intercept", cellValue(sum.Intercept)},
		{"R-squared", cellValue(sum.RSquared)},
		{"p-value", cellValue(sum.PValue)},
		{"Std Error", cellValue(sum.StdErr)},
		{"Data_Period", period},
		{"Note", sum.Note},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	if err := styleHeader(f, sheet); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func lagLabel(lag int) string {
	switch {
	case lag > 0:
		return fmt.Sprintf("AOD (lead %d mo)", lag)
	case lag < 0:
		return fmt.Sprintf("AOD (lag %d mo)", -lag)
	}
	return "AOD"
}

func correlationCells(c *model.Correlation) []interface{} {
	if c == nil {
		return []interface{}{nil, nil, nil}
	}
	return []interface{}{cellValue(c.R), cellValue(c.PValue), c.Significance}
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func styleHeader(f *excelize.File, sheet string) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"222222"}},
	})
	if err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, styleID)
}
