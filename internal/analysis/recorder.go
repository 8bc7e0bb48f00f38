package analysis

import (
	"log/slog"
	"sync"
	"time"

	"thermopoll/internal/model"
)

// Recorder collects per-step outcomes for one run. Analyses push every sink
// write through it so a single failed figure or table never aborts the rest
// of the pipeline.
type Recorder struct {
	mu    sync.Mutex
	steps []model.StepResult
	log   *slog.Logger
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Do runs one best-effort step, times it, and records the outcome. The
// error is returned unchanged so callers can gate dependent steps on it.
func (r *Recorder) Do(analysis, step, output string, fn func() error) error {
	started := time.Now()
	err := fn()
	res := model.StepResult{
		Analysis: analysis,
		Step:     step,
		Status:   model.StepOK,
		Output:   output,
		Elapsed:  time.Since(started),
	}
	if err != nil {
		res.Status = model.StepFailed
		res.Error = err.Error()
	}
	r.append(res)
	if r.log != nil {
		if err != nil {
			r.log.Warn("step failed", "analysis", analysis, "step", step, "err", err)
		} else {
			r.log.Debug("step ok", "analysis", analysis, "step", step, "output", output)
		}
	}
	return err
}

// Fail records a computation that failed before any sink was attempted.
func (r *Recorder) Fail(analysis, step string, err error) {
	r.append(model.StepResult{Analysis: analysis, Step: step, Status: model.StepFailed, Error: err.Error()})
	if r.log != nil {
		r.log.Warn("step failed", "analysis", analysis, "step", step, "err", err)
	}
}

// Skip records a step whose precondition (usually an earlier failure) was
// not met.
func (r *Recorder) Skip(analysis, step, reason string) {
	r.append(model.StepResult{Analysis: analysis, Step: step, Status: model.StepSkipped, Error: reason})
	if r.log != nil {
		r.log.Info("step skipped", "analysis", analysis, "step", step, "reason", reason)
	}
}

func (r *Recorder) append(res model.StepResult) {
	r.mu.Lock()
	r.steps = append(r.steps, res)
	r.mu.Unlock()
}

// Steps returns a copy of everything recorded so far, in order.
func (r *Recorder) Steps() []model.StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StepResult, len(r.steps))
	copy(out, r.steps)
	return out
}

// Failed counts recorded failures.
func (r *Recorder) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.steps {
		if s.Status == model.StepFailed {
			n++
		}
	}
	return n
}
