package analysis

import (
	"context"
	"path/filepath"

	"thermopoll/internal/config"
	"thermopoll/internal/decompose"
	"thermopoll/internal/forecast"
	"thermopoll/internal/report"
	"thermopoll/internal/stats"
	"thermopoll/internal/timeseries"
)

const (
	stlRobustIters     = 2
	forecastConfidence = 0.95
)

// runModeling covers the monthly pass: the lead/lag correlation table, the
// monthly regression diagnostics, the seasonal decomposition of LST, and the
// seasonal ARIMA order search with its forecast.
func (r *Runner) runModeling(ctx context.Context, runID string, rec *Recorder) error {
	ds, err := r.loader.LoadMonthly()
	if err != nil {
		rec.Fail(AnalysisModeling, "load dataset", err)
		return err
	}
	aodSeries, lstSeries, err := ds.MonthlySeries()
	if err != nil {
		rec.Fail(AnalysisModeling, "build series", err)
		return err
	}
	relDir, err := r.outDir(r.cfg.Analyses.Modeling.RelationshipSubdir)
	if err != nil {
		rec.Fail(AnalysisModeling, "create relationship dir", err)
		return err
	}
	modDir, err := r.outDir(r.cfg.Analyses.Modeling.Subdir)
	if err != nil {
		rec.Fail(AnalysisModeling, "create modeling dir", err)
		return err
	}

	mcfg := r.cfg.Analyses.Modeling
	aod, lst := aodSeries.Values, lstSeries.Values

	if cells, err := stats.LaggedCorrelations(aod, lst, mcfg.LagMonths); err != nil {
		rec.Fail(AnalysisModeling, "lag correlations", err)
	} else {
		relXLSX := filepath.Join(relDir, "relationship_analysis.xlsx")
		_ = rec.Do(AnalysisModeling, "relationship workbook", relXLSX, func() error {
			return report.RelationshipXLSX(relXLSX, cells)
		})
		if r.store != nil {
			_ = rec.Do(AnalysisModeling, "archive monthly correlations", "", func() error {
				return r.store.SaveCorrelations(ctx, runID, "monthly", cells)
			})
		}
	}

	if reg, err := stats.Linregress(aod, lst); err != nil {
		rec.Fail(AnalysisModeling, "monthly regression", err)
	} else {
		scatterPNG := filepath.Join(relDir, "AOD_vs_LST_scatter.png")
		_ = rec.Do(AnalysisModeling, "monthly scatter figure", scatterPNG, func() error {
			return r.renderer.ScatterRegression(aod, lst, reg, scatterPNG)
		})
		residPNG := filepath.Join(relDir, "regression_residuals.png")
		_ = rec.Do(AnalysisModeling, "residuals figure", residPNG, func() error {
			fitted := make([]float64, len(aod))
			for i, x := range aod {
				fitted[i] = reg.Predict(x)
			}
			return r.renderer.ResidualsVsFitted(fitted, reg.Residuals(aod, lst), residPNG)
		})
	}

	if dec, err := decompose.Decompose(lstSeries, mcfg.STLPeriod, mcfg.STLRobust, stlRobustIters); err != nil {
		rec.Fail(AnalysisModeling, "stl decomposition", err)
	} else {
		components := []struct {
			kind string
			s    *timeseries.Series
			file string
		}{
			{"Trend", dec.Trend, "STL_Trend.png"},
			{"Seasonal", dec.Seasonal, "STL_Seasonal.png"},
			{"Residual", dec.Residual, "STL_Residuals.png"},
		}
		for _, c := range components {
			png := filepath.Join(modDir, c.file)
			_ = rec.Do(AnalysisModeling, "stl "+c.kind+" figure", png, func() error {
				return r.renderer.STLComponent(c.s, c.kind, png)
			})
		}
	}

	// Order search runs first; its outcome decides what the orders file says
	// and whether a forecast is possible at all.
	order := orderOf(mcfg.FallbackOrder)
	fallback := false
	var fitted *forecast.Model
	if res, err := forecast.AutoOrder(lstSeries, orderOf(mcfg.MaxOrder)); err != nil {
		rec.Fail(AnalysisModeling, "order search", err)
		fallback = true
		if m, err := forecast.Fit(lstSeries, order); err != nil {
			rec.Fail(AnalysisModeling, "sarima fit", err)
		} else {
			fitted = m
		}
	} else {
		order = res.Order
		fitted = res.Model
	}

	ordersTXT := filepath.Join(modDir, "SARIMAX_orders.txt")
	_ = rec.Do(AnalysisModeling, "orders file", ordersTXT, func() error {
		return report.OrdersFile(ordersTXT, order, fallback)
	})

	if fitted == nil {
		rec.Skip(AnalysisModeling, "lst forecast", "no fitted model")
		return ctx.Err()
	}
	points, err := fitted.Forecast(mcfg.ForecastHorizon, forecastConfidence)
	if err != nil {
		rec.Fail(AnalysisModeling, "lst forecast", err)
		return ctx.Err()
	}
	forecastPNG := filepath.Join(modDir, "LST_forecast.png")
	_ = rec.Do(AnalysisModeling, "forecast figure", forecastPNG, func() error {
		return r.renderer.Forecast(lstSeries, points, forecastConfidence, forecastPNG)
	})
	forecastCSV := filepath.Join(modDir, "LST_forecast.csv")
	_ = rec.Do(AnalysisModeling, "forecast table", forecastCSV, func() error {
		return report.ForecastCSV(forecastCSV, points, forecastConfidence)
	})
	if r.store != nil {
		_ = rec.Do(AnalysisModeling, "archive forecast", "", func() error {
			return r.store.SaveForecast(ctx, runID, points)
		})
	}
	return ctx.Err()
}

func orderOf(c config.OrderConfig) forecast.Order {
	return forecast.Order{P: c.P, D: c.D, Q: c.Q, SP: c.SP, SD: c.SD, SQ: c.SQ, M: c.M}
}
