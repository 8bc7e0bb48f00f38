package analysis

import (
	"context"
	"path/filepath"

	"thermopoll/internal/model"
	"thermopoll/internal/report"
	"thermopoll/internal/stats"
	"thermopoll/internal/trend"
)

const monthsPerYear = 12

// runTrend runs Mann-Kendall and Sen's slope over both monthly series and
// renders each against its least-squares fit. A series too short to test is
// a failed step, not a failed analysis.
func (r *Runner) runTrend(ctx context.Context, runID string, rec *Recorder) error {
	ds, err := r.loader.LoadMonthly()
	if err != nil {
		rec.Fail(AnalysisTrend, "load dataset", err)
		return err
	}
	aodSeries, lstSeries, err := ds.MonthlySeries()
	if err != nil {
		rec.Fail(AnalysisTrend, "build series", err)
		return err
	}
	dir, err := r.outDir(r.cfg.Analyses.Trend.Subdir)
	if err != nil {
		rec.Fail(AnalysisTrend, "create output dir", err)
		return err
	}

	var rows []model.TrendStats

	aodStats, err := trend.Analyze(model.VariableAOD, aodSeries.Values, monthsPerYear)
	if err != nil {
		rec.Fail(AnalysisTrend, "aod trend", err)
	} else {
		rows = append(rows, aodStats)
		fig := filepath.Join(dir, "Figure3_AOD_Trend.png")
		_ = rec.Do(AnalysisTrend, "aod trend figure", fig, func() error {
			return r.renderer.Trend(aodSeries, fitOf(aodStats), model.VariableAOD, fig)
		})
	}

	lstStats, err := trend.Analyze(model.VariableLST, lstSeries.Values, monthsPerYear)
	if err != nil {
		rec.Fail(AnalysisTrend, "lst trend", err)
	} else {
		rows = append(rows, lstStats)
		fig := filepath.Join(dir, "Figure4_LST_Trend.png")
		_ = rec.Do(AnalysisTrend, "lst trend figure", fig, func() error {
			return r.renderer.Trend(lstSeries, fitOf(lstStats), model.VariableLST, fig)
		})
	}

	if len(rows) == 0 {
		rec.Skip(AnalysisTrend, "trend statistics", "no series produced trend statistics")
		return nil
	}

	csvPath := filepath.Join(dir, "trend_statistics.csv")
	_ = rec.Do(AnalysisTrend, "trend statistics", csvPath, func() error {
		return report.TrendStatisticsCSV(csvPath, rows)
	})
	if r.store != nil {
		_ = rec.Do(AnalysisTrend, "archive trend statistics", "", func() error {
			return r.store.SaveTrendStats(ctx, runID, rows)
		})
	}
	return ctx.Err()
}

// fitOf reshapes reported trend statistics into the regression the trend
// figure draws its fitted line from.
func fitOf(ts model.TrendStats) stats.Regression {
	return stats.Regression{Slope: ts.Slope, Intercept: ts.Intercept, RSquared: ts.RSquared, N: ts.N}
}
