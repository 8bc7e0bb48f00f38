package analysis

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"thermopoll/internal/dataset"
	"thermopoll/internal/figures"
	"thermopoll/internal/model"
	"thermopoll/internal/report"
	"thermopoll/internal/stats"
	"thermopoll/internal/trend"
)

// runCorrelation is the robust yearly pass: Mann-Kendall over complete years
// and over the full record, least squares on complete years only, and a
// cross-correlation of the regression residuals against AOD. Incomplete
// years stay visible on the scatter but never enter a statistic.
func (r *Runner) runCorrelation(ctx context.Context, runID string, rec *Recorder) error {
	ds, err := r.loader.LoadYearly()
	if err != nil {
		rec.Fail(AnalysisCorrelation, "load dataset", err)
		return err
	}
	dir, err := r.outDir(r.cfg.Analyses.Correlation.Subdir)
	if err != nil {
		rec.Fail(AnalysisCorrelation, "create output dir", err)
		return err
	}

	var complete, excluded []dataset.YearlyObs
	for _, o := range ds.Yearly {
		if o.Complete {
			complete = append(complete, o)
		} else {
			excluded = append(excluded, o)
		}
	}
	completeAOD, completeLST := splitYearly(complete)
	allAOD, allLST := splitYearly(ds.Yearly)

	completeLabel := yearsLabel(complete)
	completePeriod := completeLabel + " (Complete)"
	excludedList := yearList(excluded)
	fullPeriod := yearsLabel(ds.Yearly) + " (Complete)"
	if len(excluded) > 0 {
		fullPeriod = fmt.Sprintf("%s (%s Incomplete)", yearsLabel(ds.Yearly), excludedList)
	}

	rows := []report.TrendPeriodRow{
		yearlyTrendRow("AOD", completeAOD, completePeriod),
		yearlyTrendRow("LST (°C)", completeLST, completePeriod),
		yearlyTrendRow("AOD", allAOD, fullPeriod),
		yearlyTrendRow("LST (°C)", allLST, fullPeriod),
	}
	trendXLSX := filepath.Join(dir, "trend_results_with_notes.xlsx")
	_ = rec.Do(AnalysisCorrelation, "yearly trend workbook", trendXLSX, func() error {
		return report.TrendResultsXLSX(trendXLSX, rows)
	})

	var reg *stats.Regression
	if fit, err := stats.Linregress(completeAOD, completeLST); err != nil {
		rec.Fail(AnalysisCorrelation, "yearly regression", err)
	} else {
		reg = &fit
	}

	note := "Complete years only"
	switch {
	case reg == nil:
		note = "Insufficient data for regression"
	case len(excluded) > 0:
		note = fmt.Sprintf("Complete years only (%s excluded due to incomplete data)", excludedList)
	}
	sum := model.RegressionSummary{
		Slope: math.NaN(), Intercept: math.NaN(), R: math.NaN(),
		RSquared: math.NaN(), PValue: math.NaN(), StdErr: math.NaN(),
		Note: note,
	}
	if reg != nil {
		sum = model.RegressionSummary{
			Slope: reg.Slope, Intercept: reg.Intercept, R: reg.R,
			RSquared: reg.RSquared, PValue: reg.PValue, StdErr: reg.StdErr,
			N: reg.N, Note: note,
		}
	}
	regXLSX := filepath.Join(dir, "regression_summary_with_notes.xlsx")
	_ = rec.Do(AnalysisCorrelation, "regression workbook", regXLSX, func() error {
		return report.RegressionXLSX(regXLSX, sum, completeLabel)
	})

	opts := figures.YearlyScatterOptions{
		Title:         "AOD vs LST Correlation",
		CompleteLabel: completePeriod,
		FitLabel:      "Regression Line (" + completeLabel + ")",
	}
	if len(complete) > 0 {
		opts.Title = fmt.Sprintf("AOD vs LST Correlation (%s Complete Data)", completeLabel)
	}
	if len(excluded) > 0 {
		opts.ExcludedLabel = yearsLabel(excluded) + " (Incomplete)"
		if len(complete) > 0 {
			opts.Title += "\n" + excludedList + " shown for reference (incomplete)"
		}
	}
	if reg != nil {
		opts.Annotation = fmt.Sprintf("R² = %.3f\n(%s only)", reg.RSquared, completeLabel)
	}
	scatterPNG := filepath.Join(dir, "AOD_vs_LST_scatter_with_notes.png")
	_ = rec.Do(AnalysisCorrelation, "yearly scatter figure", scatterPNG, func() error {
		return r.renderer.YearlyScatter(complete, excluded, reg, opts, scatterPNG)
	})

	if reg == nil {
		rec.Skip(AnalysisCorrelation, "residuals and ccf", "regression unavailable")
	} else {
		ccfPNG := filepath.Join(dir, "ccf_plot_with_notes.png")
		_ = rec.Do(AnalysisCorrelation, "residuals and ccf", ccfPNG, func() error {
			residuals := reg.Residuals(completeAOD, completeLST)
			residStd, err := stats.Standardize(residuals)
			if err != nil {
				return fmt.Errorf("standardize residuals: %w", err)
			}
			aodStd, err := stats.Standardize(completeAOD)
			if err != nil {
				return fmt.Errorf("standardize aod: %w", err)
			}
			maxLag := r.cfg.Analyses.Correlation.MaxLag
			if n := len(complete) - 2; n < maxLag {
				maxLag = n
			}
			ccf, err := stats.CCF(residStd, aodStd, maxLag)
			if err != nil {
				return err
			}
			years := make([]int, len(complete))
			for i, o := range complete {
				years[i] = o.Year
			}
			return r.renderer.ResidualsAndCCF(years, residuals, ccf, completeLabel+" Complete Data", ccfPNG)
		})
	}

	completenessCSV := filepath.Join(dir, "analysis_data_completeness_report.csv")
	_ = rec.Do(AnalysisCorrelation, "completeness report", completenessCSV, func() error {
		return report.CompletenessCSV(completenessCSV, completenessRows(completePeriod, excludedList))
	})

	if r.store != nil {
		if cells := yearlyCorrelationCells(completeAOD, completeLST); len(cells) > 0 {
			_ = rec.Do(AnalysisCorrelation, "archive yearly correlations", "", func() error {
				return r.store.SaveCorrelations(ctx, runID, "yearly", cells)
			})
		}
	}

	return ctx.Err()
}

// yearlyTrendRow runs the Mann-Kendall test with Sen's slope over one yearly
// sample. Samples too short to test get the placeholder row so the workbook
// still reports every period.
func yearlyTrendRow(variable string, values []float64, period string) report.TrendPeriodRow {
	row := report.TrendPeriodRow{
		Variable:     variable,
		Trend:        "Insufficient data",
		PValue:       math.NaN(),
		Significance: "N/A",
		SenSlope:     math.NaN(),
		Period:       period,
	}
	mk, err := trend.MannKendall(values)
	if err != nil {
		return row
	}
	sen, err := trend.SenSlope(values)
	if err != nil {
		return row
	}
	row.Trend = mk.Trend
	row.PValue = mk.P
	row.Significance = stats.Stars(mk.P)
	row.SenSlope = sen
	return row
}

// completenessRows documents which period each robust statistic used and why.
func completenessRows(period, excludedList string) []report.CompletenessRow {
	status := "None excluded"
	biasReason := "Avoid bias from incomplete years"
	if excludedList != "" {
		status = "Excluded"
		biasReason = fmt.Sprintf("Avoid bias from incomplete %s data", excludedList)
	}
	return []report.CompletenessRow{
		{Component: "Trend Analysis", Period: period, Reason: "Robust trend detection requires complete years", Status: status},
		{Component: "Regression Analysis", Period: period, Reason: biasReason, Status: status},
		{Component: "Residuals Analysis", Period: period, Reason: "Consistency with regression period", Status: status},
		{Component: "CCF Analysis", Period: period, Reason: "Adequate time series length for lag analysis", Status: status},
	}
}

// yearlyCorrelationCells computes the lag-zero correlations archived with the
// run; too-short samples archive nothing.
func yearlyCorrelationCells(aod, lst []float64) []model.Correlation {
	var cells []model.Correlation
	if r, p, err := stats.Pearson(aod, lst); err == nil {
		cells = append(cells, model.Correlation{Method: "pearson", R: r, PValue: p, N: len(aod), Significance: stats.Stars(p)})
	}
	if rho, p, err := stats.Spearman(aod, lst); err == nil {
		cells = append(cells, model.Correlation{Method: "spearman", R: rho, PValue: p, N: len(aod), Significance: stats.Stars(p)})
	}
	return cells
}

// yearList renders excluded years for notes, "2025" or "2024, 2025".
func yearList(obs []dataset.YearlyObs) string {
	parts := make([]string, len(obs))
	for i, o := range obs {
		parts[i] = strconv.Itoa(o.Year)
	}
	return strings.Join(parts, ", ")
}
