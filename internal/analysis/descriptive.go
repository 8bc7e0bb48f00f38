package analysis

import (
	"context"
	"path/filepath"

	"thermopoll/internal/dataset"
	"thermopoll/internal/model"
	"thermopoll/internal/report"
	"thermopoll/internal/stats"
)

// runDescriptive summarizes the three aggregation levels and renders the
// climatological cycle figures.
func (r *Runner) runDescriptive(ctx context.Context, runID string, rec *Recorder) error {
	ds, err := r.loader.Load()
	if err != nil {
		rec.Fail(AnalysisDescriptive, "load dataset", err)
		return err
	}
	dir, err := r.outDir(r.cfg.Analyses.Descriptive.Subdir)
	if err != nil {
		rec.Fail(AnalysisDescriptive, "create output dir", err)
		return err
	}

	monthlyAOD, monthlyLST := splitMonthly(ds.Monthly)
	seasonalAOD, seasonalLST := splitSeasonal(ds.Seasonal)
	yearlyAOD, yearlyLST := splitYearly(ds.Yearly)

	monthlyCSV := filepath.Join(dir, "monthly_summary.csv")
	_ = rec.Do(AnalysisDescriptive, "monthly summary", monthlyCSV, func() error {
		return report.SummaryCSV(monthlyCSV, []model.SummaryStats{
			stats.Summarize(model.VariableAOD, monthlyAOD),
			stats.Summarize(model.VariableLST, monthlyLST),
		})
	})

	seasonalCSV := filepath.Join(dir, "seasonal_summary.csv")
	_ = rec.Do(AnalysisDescriptive, "seasonal summary", seasonalCSV, func() error {
		return report.SummaryCSV(seasonalCSV, []model.SummaryStats{
			stats.Summarize(model.VariableAOD, seasonalAOD),
			stats.Summarize(model.VariableLST, seasonalLST),
		})
	})

	yearlyCSV := filepath.Join(dir, "yearly_summary.csv")
	_ = rec.Do(AnalysisDescriptive, "yearly summary", yearlyCSV, func() error {
		return report.SummaryCSV(yearlyCSV, []model.SummaryStats{
			stats.Summarize(model.VariableAOD, yearlyAOD),
			stats.Summarize(model.VariableLST, yearlyLST),
		})
	})

	monthlyFig := filepath.Join(dir, "Monthly_Cycle_AOD_and_LST.png")
	_ = rec.Do(AnalysisDescriptive, "monthly cycle figure", monthlyFig, func() error {
		return r.renderer.MonthlyCycle(dataset.MonthlyCycle(ds.Monthly), monthlyFig)
	})

	seasonalFig := filepath.Join(dir, "Seasonal_Cycle_AOD_and_LST.png")
	_ = rec.Do(AnalysisDescriptive, "seasonal cycle figure", seasonalFig, func() error {
		return r.renderer.SeasonalCycle(dataset.SeasonalCycle(ds.Seasonal), seasonalFig)
	})

	return ctx.Err()
}
