package analysis

import (
	"errors"
	"testing"

	"thermopoll/internal/logging"
	"thermopoll/internal/model"
)

func TestRecorderDo(t *testing.T) {
	rec := NewRecorder(logging.Nop())

	if err := rec.Do("trend", "aod trend", "out/aod.csv", func() error { return nil }); err != nil {
		t.Fatalf("do: %v", err)
	}
	boom := errors.New("disk full")
	if err := rec.Do("trend", "lst trend", "", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the step error passed through", err)
	}

	steps := rec.Steps()
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}
	if steps[0].Status != model.StepOK || steps[0].Output != "out/aod.csv" {
		t.Errorf("first step = %+v, want ok with its output path", steps[0])
	}
	if steps[1].Status != model.StepFailed || steps[1].Error != "disk full" {
		t.Errorf("second step = %+v, want failed with the error text", steps[1])
	}
	if rec.Failed() != 1 {
		t.Errorf("failed = %d, want 1", rec.Failed())
	}
}

func TestRecorderFailAndSkip(t *testing.T) {
	rec := NewRecorder(logging.Nop())
	rec.Fail("modeling", "order search", errors.New("no candidate"))
	rec.Skip("modeling", "lst forecast", "no fitted model")

	steps := rec.Steps()
	if steps[0].Status != model.StepFailed {
		t.Errorf("fail status = %v", steps[0].Status)
	}
	if steps[1].Status != model.StepSkipped || steps[1].Error != "no fitted model" {
		t.Errorf("skip step = %+v, want skipped with the reason", steps[1])
	}
	if rec.Failed() != 1 {
		t.Errorf("failed = %d, want 1 (skips do not count)", rec.Failed())
	}
}

func TestRecorderStepsIsACopy(t *testing.T) {
	rec := NewRecorder(logging.Nop())
	rec.Skip("events", "publish events", "publishing disabled")

	steps := rec.Steps()
	steps[0].Step = "mutated"
	if rec.Steps()[0].Step != "publish events" {
		t.Fatal("Steps leaked the internal slice")
	}
}
