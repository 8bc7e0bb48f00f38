// Package cli assembles the thermopoll command tree: one subcommand per
// analysis, an aggregate "all", and config management.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"thermopoll/internal/analysis"
	"thermopoll/internal/config"
)

const version = "0.3.0"

// app carries the persistent flag values shared by every subcommand.
type app struct {
	configPath string
	dataDir    string
	outDir     string
	logLevel   string
	logFormat  string
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "thermopoll",
		Short: "AOD/LST coupling analysis for the Lagos study area",
		Long: "thermopoll loads the monthly, seasonal, and yearly AOD and LST tables\n" +
			"for the study area and runs the descriptive, trend, correlation,\n" +
			"modeling, and event-detection analyses, writing figures and tables per\n" +
			"analysis, with optional database archiving and Kafka event publishing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "override the input data directory")
	cmd.PersistentFlags().StringVar(&a.outDir, "out-dir", "", "override the output directory")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or text")

	cmd.AddCommand(
		newAnalysisCmd(a, analysis.AnalysisDescriptive, "Summary statistics and climatological cycle figures"),
		newAnalysisCmd(a, analysis.AnalysisTrend, "Monthly Mann-Kendall and Sen's slope trends"),
		newAnalysisCmd(a, analysis.AnalysisCorrelation, "Yearly trends, regression, and residual cross-correlation"),
		newAnalysisCmd(a, analysis.AnalysisModeling, "Lag correlations, STL decomposition, and the SARIMA forecast"),
		newAnalysisCmd(a, analysis.AnalysisEvents, "Heatwave and high-pollution event detection"),
		newAllCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

// loadConfig resolves the effective configuration: the file when given,
// defaults otherwise, with flag overrides applied before validation.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", a.configPath, err)
		}
		cfg = loaded
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.outDir != "" {
		cfg.Data.OutDir = a.outDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
