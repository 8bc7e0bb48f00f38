package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "output", cfg.Data.OutDir)
	assert.Equal(t, "Lagos_Monthly_AOD_2017_2025.csv", cfg.Data.MonthlyAOD)
	assert.Equal(t, "Incomplete (Jan-Aug only)", cfg.Data.ExcludedYears[2025])

	assert.Equal(t, 300, cfg.Style.DPI)
	assert.Equal(t, "dark", cfg.Style.Theme)

	assert.Equal(t, "descriptive_analysis", cfg.Analyses.Descriptive.Subdir)
	assert.Equal(t, 3, cfg.Analyses.Correlation.MaxLag)
	assert.Equal(t, 12, cfg.Analyses.Modeling.STLPeriod)
	assert.True(t, cfg.Analyses.Modeling.STLRobust)
	assert.Equal(t, 12, cfg.Analyses.Modeling.ForecastHorizon)
	assert.Equal(t, OrderConfig{P: 1, D: 1, Q: 1, SP: 0, SD: 1, SQ: 1, M: 12}, cfg.Analyses.Modeling.FallbackOrder)
	assert.Equal(t, 90.0, cfg.Analyses.Events.Percentile)
	assert.Equal(t, 1.5, cfg.Analyses.Events.ZThreshold)
	assert.Equal(t, 2, cfg.Analyses.Events.MinDurationMonths)

	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "sqlite", cfg.Archive.Driver)
	assert.False(t, cfg.Publish.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modifyFn func(*Config)
		errorMsg string
	}{
		{
			name:     "unknown theme",
			modifyFn: func(cfg *Config) { cfg.Style.Theme = "solarized" },
			errorMsg: "style.theme must be dark or light",
		},
		{
			name:     "non-positive dpi",
			modifyFn: func(cfg *Config) { cfg.Style.DPI = 0 },
			errorMsg: "style.dpi must be > 0",
		},
		{
			name:     "percentile at the upper bound",
			modifyFn: func(cfg *Config) { cfg.Analyses.Events.Percentile = 100 },
			errorMsg: "percentile must be in (0, 100)",
		},
		{
			name:     "non-positive z threshold",
			modifyFn: func(cfg *Config) { cfg.Analyses.Events.ZThreshold = 0 },
			errorMsg: "z_threshold must be > 0",
		},
		{
			name:     "zero minimum duration",
			modifyFn: func(cfg *Config) { cfg.Analyses.Events.MinDurationMonths = 0 },
			errorMsg: "min_duration_months must be >= 1",
		},
		{
			name:     "zero correlation lag",
			modifyFn: func(cfg *Config) { cfg.Analyses.Correlation.MaxLag = 0 },
			errorMsg: "max_lag must be >= 1",
		},
		{
			name:     "stl period below two",
			modifyFn: func(cfg *Config) { cfg.Analyses.Modeling.STLPeriod = 1 },
			errorMsg: "stl_period must be >= 2",
		},
		{
			name:     "zero forecast horizon",
			modifyFn: func(cfg *Config) { cfg.Analyses.Modeling.ForecastHorizon = 0 },
			errorMsg: "forecast_horizon must be >= 1",
		},
		{
			name:     "negative order component",
			modifyFn: func(cfg *Config) { cfg.Analyses.Modeling.MaxOrder.P = -1 },
			errorMsg: "max_order components must be >= 0",
		},
		{
			name:     "seasonal period below two",
			modifyFn: func(cfg *Config) { cfg.Analyses.Modeling.FallbackOrder.M = 1 },
			errorMsg: "fallback_order.m must be >= 2",
		},
		{
			name: "unknown archive driver",
			modifyFn: func(cfg *Config) {
				cfg.Archive.Enabled = true
				cfg.Archive.Driver = "mysql"
			},
			errorMsg: "archive.driver must be sqlite or postgres",
		},
		{
			name: "archive without dsn",
			modifyFn: func(cfg *Config) {
				cfg.Archive.Enabled = true
				cfg.Archive.DSN = ""
			},
			errorMsg: "archive.dsn required",
		},
		{
			name:     "publish without brokers",
			modifyFn: func(cfg *Config) { cfg.Publish.Enabled = true },
			errorMsg: "publish requires brokers and topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modifyFn(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoadYAMLFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
  format: text

data:
  dir: /srv/lagos
  excluded_years:
    2025: "Incomplete (Jan-Aug only)"

style:
  theme: light

analyses:
  correlation:
    max_lag: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/srv/lagos", cfg.Data.Dir)
	assert.Equal(t, "light", cfg.Style.Theme)
	assert.Equal(t, 6, cfg.Analyses.Correlation.MaxLag)

	// Everything the file leaves out comes from the defaults.
	assert.Equal(t, "output", cfg.Data.OutDir)
	assert.Equal(t, "Lagos_Monthly_LST_2017_2025.csv", cfg.Data.MonthlyLST)
	assert.Equal(t, 300, cfg.Style.DPI)
	assert.Equal(t, 90.0, cfg.Analyses.Events.Percentile)
	assert.Equal(t, 12, cfg.Analyses.Modeling.MaxOrder.M)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"logging": {"level": "warn"}, "style": {"dpi": 150}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 150, cfg.Style.DPI)
	assert.Equal(t, "dark", cfg.Style.Theme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "config file is empty")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style:\n  theme: neon\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "style.theme")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Analyses.Events.Percentile = 85
	cfg.Data.Dir = "/srv/lagos"

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, Save(yamlPath, cfg))
	loaded, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, Save(jsonPath, cfg))
	loaded, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
