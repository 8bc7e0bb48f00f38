package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thermopoll/internal/analysis"
	"thermopoll/internal/logging"
	"thermopoll/internal/model"
	"thermopoll/internal/publish"
	"thermopoll/internal/storage"
)

func newAnalysisCmd(a *app, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, []string{name})
		},
	}
}

func newAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every analysis in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, nil)
		},
	}
}

func (a *app) run(cmd *cobra.Command, names []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	store, err := storage.NewStore(cfg.Archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if store != nil {
		defer store.Close()
	}
	pub := publish.NewPublisher(cfg.Publish, logger)
	if pub != nil {
		defer pub.Close()
	}

	runner := analysis.NewRunner(cfg, logger, store, pub)
	rep, runErr := runner.Run(cmd.Context(), names)
	if rep != nil {
		writeReport(cmd.OutOrStdout(), rep)
	}
	return runErr
}

// writeReport prints the per-step outcome table after a run.
func writeReport(w io.Writer, rep *analysis.Report) {
	fmt.Fprintf(w, "run %s: %d steps, %d failed\n", rep.Run.ID, len(rep.Steps), rep.Failed())
	for _, st := range rep.Steps {
		line := fmt.Sprintf("  %-7s %s/%s", st.Status, st.Analysis, st.Step)
		switch {
		case st.Status == model.StepFailed:
			line += ": " + st.Error
		case st.Status == model.StepSkipped && st.Error != "":
			line += " (" + st.Error + ")"
		case st.Output != "":
			line += " -> " + st.Output
		}
		fmt.Fprintln(w, line)
	}
}
