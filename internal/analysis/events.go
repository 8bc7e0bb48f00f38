package analysis

import (
	"context"
	"path/filepath"

	"thermopoll/internal/events"
	"thermopoll/internal/figures"
	"thermopoll/internal/model"
	"thermopoll/internal/report"
)

// runEvents detects heatwave and high-pollution episodes on the monthly
// anomaly series and fans the results out to figures, the events table, the
// archive, and the publisher.
func (r *Runner) runEvents(ctx context.Context, runID string, rec *Recorder) error {
	ds, err := r.loader.LoadMonthly()
	if err != nil {
		rec.Fail(AnalysisEvents, "load dataset", err)
		return err
	}
	aodSeries, lstSeries, err := ds.MonthlySeries()
	if err != nil {
		rec.Fail(AnalysisEvents, "build series", err)
		return err
	}
	dir, err := r.outDir(r.cfg.Analyses.Events.Subdir)
	if err != nil {
		rec.Fail(AnalysisEvents, "create output dir", err)
		return err
	}

	ecfg := r.cfg.Analyses.Events
	det := events.New(events.Options{
		Percentile:        ecfg.Percentile,
		ZThreshold:        ecfg.ZThreshold,
		MinDurationMonths: ecfg.MinDurationMonths,
	})

	lstAnom := events.NewAnomalies(lstSeries)
	aodAnom := events.NewAnomalies(aodSeries)
	lstZ := events.NewZScores(lstSeries)
	aodZ := events.NewZScores(aodSeries)

	lstPct, err := det.DetectPercentile(model.VariableLST, lstAnom)
	if err != nil {
		rec.Fail(AnalysisEvents, "lst percentile detection", err)
	}
	aodPct, err := det.DetectPercentile(model.VariableAOD, aodAnom)
	if err != nil {
		rec.Fail(AnalysisEvents, "aod percentile detection", err)
	}
	lstZD, err := det.DetectZScore(model.VariableLST, lstZ)
	if err != nil {
		rec.Fail(AnalysisEvents, "lst zscore detection", err)
	}
	aodZD, err := det.DetectZScore(model.VariableAOD, aodZ)
	if err != nil {
		rec.Fail(AnalysisEvents, "aod zscore detection", err)
	}

	if lstPct != nil && aodPct != nil {
		panelPNG := filepath.Join(dir, "anomaly_heatwave_pollution.png")
		_ = rec.Do(AnalysisEvents, "anomaly panels figure", panelPNG, func() error {
			return r.renderer.AnomalyPanels(lstAnom.Series, lstPct.Mask, aodAnom.Series, aodPct.Mask, panelPNG)
		})
	}

	if lstPct != nil {
		calPNG := filepath.Join(dir, "heatwave_events_calendar.png")
		_ = rec.Do(AnalysisEvents, "heatwave calendar figure", calPNG, func() error {
			cal, err := events.Pivot(lstPct.Months, lstPct.Mask)
			if err != nil {
				return err
			}
			return r.renderer.EventCalendar(cal, "Heatwave Events Calendar (Percentile Threshold)", figures.ColorHeat, calPNG)
		})
	}
	if aodPct != nil {
		calPNG := filepath.Join(dir, "pollution_events_calendar.png")
		_ = rec.Do(AnalysisEvents, "pollution calendar figure", calPNG, func() error {
			cal, err := events.Pivot(aodPct.Months, aodPct.Mask)
			if err != nil {
				return err
			}
			return r.renderer.EventCalendar(cal, "High Pollution Events Calendar (Percentile Threshold)", figures.ColorHaze, calPNG)
		})
	}

	compositePNG := filepath.Join(dir, "zscore_composite_anomalies.png")
	_ = rec.Do(AnalysisEvents, "composite zscore figure", compositePNG, func() error {
		return r.renderer.CompositeZ(lstZ.Series, aodZ.Series, ecfg.ZThreshold, compositePNG)
	})

	var all []model.Event
	for _, d := range []*events.Detection{lstPct, aodPct, lstZD, aodZD} {
		if d != nil {
			all = append(all, d.Events...)
		}
	}
	r.recent.AddAll(all)

	eventsCSV := filepath.Join(dir, "detected_events.csv")
	_ = rec.Do(AnalysisEvents, "events table", eventsCSV, func() error {
		return report.EventsCSV(eventsCSV, all)
	})

	if r.store != nil && len(all) > 0 {
		_ = rec.Do(AnalysisEvents, "archive events", "", func() error {
			return r.store.SaveEvents(ctx, runID, all)
		})
	}
	if r.pub != nil && len(all) > 0 {
		_ = rec.Do(AnalysisEvents, "publish events", "", func() error {
			return r.pub.PublishEvents(ctx, runID, all)
		})
	}
	return ctx.Err()
}
