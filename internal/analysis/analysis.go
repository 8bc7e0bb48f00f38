// Package analysis wires the study pipeline together. Each subcommand maps
// to one orchestrator that loads the dataset, computes its statistics, and
// fans results out to figures, tables, the archive, and the event publisher.
// Data-load failures are fatal for the analysis that needs the data; every
// downstream step is best-effort and recorded.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"thermopoll/internal/config"
	"thermopoll/internal/dataset"
	"thermopoll/internal/events"
	"thermopoll/internal/figures"
	"thermopoll/internal/model"
	"thermopoll/internal/publish"
	"thermopoll/internal/storage"
)

const (
	AnalysisDescriptive = "descriptive"
	AnalysisTrend       = "trend"
	AnalysisCorrelation = "correlation"
	AnalysisModeling    = "modeling"
	AnalysisEvents      = "events"
)

// AllAnalyses lists the analyses in pipeline order.
func AllAnalyses() []string {
	return []string{AnalysisDescriptive, AnalysisTrend, AnalysisCorrelation, AnalysisModeling, AnalysisEvents}
}

// Runner executes analyses against one configuration. The archive store and
// the publisher may be nil (disabled); figures and tables always run.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	loader   *dataset.Loader
	renderer *figures.Renderer
	recent   *events.Store
	store    storage.Store
	pub      *publish.Publisher
}

func NewRunner(cfg *config.Config, logger *slog.Logger, store storage.Store, pub *publish.Publisher) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		loader:   dataset.NewLoader(cfg, logger),
		renderer: figures.NewRenderer(figures.ThemeByName(cfg.Style.Theme), cfg.Style.DPI),
		recent:   events.NewStore(cfg.Analyses.Events.StoreLimit),
		store:    store,
		pub:      pub,
	}
}

// Recent is the bounded buffer of events detected by this process.
func (r *Runner) Recent() *events.Store { return r.recent }

// Report is the outcome of one run.
type Report struct {
	Run   model.Run
	Steps []model.StepResult
}

func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == model.StepFailed {
			n++
		}
	}
	return n
}

// Run executes the named analyses in order, all of them when names is empty.
// A fatally failing analysis is recorded and the remaining ones still run;
// the returned error joins every fatal failure.
func (r *Runner) Run(ctx context.Context, names []string) (*Report, error) {
	if len(names) == 0 {
		names = AllAnalyses()
	}
	run := model.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Analyses:  names,
		DataDir:   r.cfg.Data.Dir,
		OutDir:    r.cfg.Data.OutDir,
	}
	if r.store != nil {
		if err := r.store.Init(ctx); err != nil {
			return nil, fmt.Errorf("archive init: %w", err)
		}
	}

	rec := NewRecorder(r.logger)
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r.logger.Info("analysis started", "analysis", name, "run_id", run.ID)
		var err error
		switch name {
		case AnalysisDescriptive:
			err = r.runDescriptive(ctx, run.ID, rec)
		case AnalysisTrend:
			err = r.runTrend(ctx, run.ID, rec)
		case AnalysisCorrelation:
			err = r.runCorrelation(ctx, run.ID, rec)
		case AnalysisModeling:
			err = r.runModeling(ctx, run.ID, rec)
		case AnalysisEvents:
			err = r.runEvents(ctx, run.ID, rec)
		default:
			err = fmt.Errorf("unknown analysis %q", name)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			r.logger.Error("analysis failed", "analysis", name, "err", err)
			continue
		}
		r.logger.Info("analysis finished", "analysis", name)
	}
	run.FinishedAt = time.Now().UTC()

	if r.store != nil {
		_ = rec.Do("run", "archive run", "", func() error {
			if err := r.store.SaveRun(ctx, run); err != nil {
				return err
			}
			return r.store.SaveSteps(ctx, run.ID, rec.Steps())
		})
	}

	report := &Report{Run: run, Steps: rec.Steps()}
	r.logger.Info("run complete",
		"run_id", run.ID,
		"analyses", len(names),
		"steps", len(report.Steps),
		"failed_steps", report.Failed(),
		"elapsed", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	return report, errors.Join(errs...)
}

// outDir resolves one analysis output folder under the output root, creating
// it on demand.
func (r *Runner) outDir(subdir string) (string, error) {
	dir := filepath.Join(r.cfg.Data.OutDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return dir, nil
}

func splitMonthly(obs []dataset.MonthlyObs) (aod, lst []float64) {
	aod = make([]float64, len(obs))
	lst = make([]float64, len(obs))
	for i, o := range obs {
		aod[i] = o.AOD
		lst[i] = o.LST
	}
	return aod, lst
}

func splitSeasonal(obs []dataset.SeasonalObs) (aod, lst []float64) {
	aod = make([]float64, len(obs))
	lst = make([]float64, len(obs))
	for i, o := range obs {
		aod[i] = o.AOD
		lst[i] = o.LST
	}
	return aod, lst
}

func splitYearly(obs []dataset.YearlyObs) (aod, lst []float64) {
	aod = make([]float64, len(obs))
	lst = make([]float64, len(obs))
	for i, o := range obs {
		aod[i] = o.AOD
		lst[i] = o.LST
	}
	return aod, lst
}

// yearsLabel renders a sorted yearly span as "2017-2024", collapsing a
// single year to just the year.
func yearsLabel(obs []dataset.YearlyObs) string {
	if len(obs) == 0 {
		return ""
	}
	first := obs[0].Year
	last := obs[len(obs)-1].Year
	if first == last {
		return strconv.Itoa(first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}
