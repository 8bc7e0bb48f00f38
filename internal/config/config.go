package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Style    StyleConfig    `json:"style" yaml:"style"`
	Analyses AnalysesConfig `json:"analyses" yaml:"analyses"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
	Publish  PublishConfig  `json:"publish" yaml:"publish"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DataConfig names the six input tables and the output root. ExcludedYears
// maps a year to the reason it is left out of robust statistics; excluded
// years still appear on reference figures.
type DataConfig struct {
	Dir           string         `json:"dir" yaml:"dir"`
	OutDir        string         `json:"out_dir" yaml:"out_dir"`
	MonthlyAOD    string         `json:"monthly_aod" yaml:"monthly_aod"`
	MonthlyLST    string         `json:"monthly_lst" yaml:"monthly_lst"`
	SeasonalAOD   string         `json:"seasonal_aod" yaml:"seasonal_aod"`
	SeasonalLST   string         `json:"seasonal_lst" yaml:"seasonal_lst"`
	YearlyAOD     string         `json:"yearly_aod" yaml:"yearly_aod"`
	YearlyLST     string         `json:"yearly_lst" yaml:"yearly_lst"`
	ExcludedYears map[int]string `json:"excluded_years" yaml:"excluded_years"`
}

type StyleConfig struct {
	DPI   int    `json:"dpi" yaml:"dpi"`
	Theme string `json:"theme" yaml:"theme"`
}

type AnalysesConfig struct {
	Descriptive DescriptiveConfig `json:"descriptive" yaml:"descriptive"`
	Trend       TrendConfig       `json:"trend" yaml:"trend"`
	Correlation CorrelationConfig `json:"correlation" yaml:"correlation"`
	Modeling    ModelingConfig    `json:"modeling" yaml:"modeling"`
	Events      EventsConfig      `json:"events" yaml:"events"`
}

type DescriptiveConfig struct {
	Subdir string `json:"subdir" yaml:"subdir"`
}

type TrendConfig struct {
	Subdir string `json:"subdir" yaml:"subdir"`
}

type CorrelationConfig struct {
	Subdir string `json:"subdir" yaml:"subdir"`
	MaxLag int    `json:"max_lag" yaml:"max_lag"`
}

// ModelingConfig drives the monthly relationship and time-series modeling
// pass. Relationship tables and scatter figures land in RelationshipSubdir,
// decomposition and forecast outputs in Subdir.
type ModelingConfig struct {
	Subdir             string      `json:"subdir" yaml:"subdir"`
	RelationshipSubdir string      `json:"relationship_subdir" yaml:"relationship_subdir"`
	LagMonths          int         `json:"lag_months" yaml:"lag_months"`
	STLPeriod          int         `json:"stl_period" yaml:"stl_period"`
	STLRobust          bool        `json:"stl_robust" yaml:"stl_robust"`
	ForecastHorizon    int         `json:"forecast_horizon" yaml:"forecast_horizon"`
	MaxOrder           OrderConfig `json:"max_order" yaml:"max_order"`
	FallbackOrder      OrderConfig `json:"fallback_order" yaml:"fallback_order"`
}

// OrderConfig is a SARIMA (p,d,q)(P,D,Q)m specification.
type OrderConfig struct {
	P  int `json:"p" yaml:"p"`
	D  int `json:"d" yaml:"d"`
	Q  int `json:"q" yaml:"q"`
	SP int `json:"sp" yaml:"sp"`
	SD int `json:"sd" yaml:"sd"`
	SQ int `json:"sq" yaml:"sq"`
	M  int `json:"m" yaml:"m"`
}

type EventsConfig struct {
	Subdir            string  `json:"subdir" yaml:"subdir"`
	Percentile        float64 `json:"percentile" yaml:"percentile"`
	ZThreshold        float64 `json:"z_threshold" yaml:"z_threshold"`
	MinDurationMonths int     `json:"min_duration_months" yaml:"min_duration_months"`
	StoreLimit        int     `json:"store_limit" yaml:"store_limit"`
}

type ArchiveConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Driver  string `json:"driver" yaml:"driver"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

type PublishConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Data: DataConfig{
			Dir:         "data",
			OutDir:      "output",
			MonthlyAOD:  "Lagos_Monthly_AOD_2017_2025.csv",
			MonthlyLST:  "Lagos_Monthly_LST_2017_2025.csv",
			SeasonalAOD: "Lagos_Seasonal_AOD_2017_2025.csv",
			SeasonalLST: "Lagos_Seasonal_LST_2017_2025.csv",
			YearlyAOD:   "Lagos_Yearly_AOD_2017_2025.csv",
			YearlyLST:   "Lagos_Yearly_LST_2017_2025.csv",
			ExcludedYears: map[int]string{
				2025: "Incomplete (Jan-Aug only)",
			},
		},
		Style: StyleConfig{DPI: 300, Theme: "dark"},
		Analyses: AnalysesConfig{
			Descriptive: DescriptiveConfig{Subdir: "descriptive_analysis"},
			Trend:       TrendConfig{Subdir: "trend_analysis"},
			Correlation: CorrelationConfig{Subdir: "correlation_analysis", MaxLag: 3},
			Modeling: ModelingConfig{
				Subdir:             "modeling_analysis",
				RelationshipSubdir: "relationship_analysis",
				LagMonths:          3,
				STLPeriod:          12,
				STLRobust:          true,
				ForecastHorizon:    12,
				MaxOrder:           OrderConfig{P: 3, D: 2, Q: 3, SP: 1, SD: 1, SQ: 1, M: 12},
				FallbackOrder:      OrderConfig{P: 1, D: 1, Q: 1, SP: 0, SD: 1, SQ: 1, M: 12},
			},
			Events: EventsConfig{
				Subdir:            "event_detection",
				Percentile:        90,
				ZThreshold:        1.5,
				MinDurationMonths: 2,
				StoreLimit:        1000,
			},
		},
		Archive: ArchiveConfig{Enabled: false, Driver: "sqlite", DSN: "file:thermopoll.db?_pragma=busy_timeout(5000)"},
		Publish: PublishConfig{Enabled: false},
	}
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	trimmed := strings.TrimSpace(string(content))
	if len(trimmed) == 0 {
		return nil, errors.New("config file is empty")
	}
	var decodeErr error
	if looksLikeJSON(trimmed) {
		decodeErr = json.Unmarshal([]byte(trimmed), cfg)
	} else {
		decodeErr = yaml.Unmarshal([]byte(trimmed), cfg)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if path == "" || cfg == nil {
		return errors.New("config path or config is empty")
	}
	var data []byte
	var err error
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func looksLikeJSON(s string) bool {
	for _, ch := range s {
		if ch == '{' || ch == '[' {
			return true
		}
		if ch > ' ' {
			return false
		}
	}
	return false
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = def.Data.Dir
	}
	if cfg.Data.OutDir == "" {
		cfg.Data.OutDir = def.Data.OutDir
	}
	if cfg.Data.MonthlyAOD == "" {
		cfg.Data.MonthlyAOD = def.Data.MonthlyAOD
	}
	if cfg.Data.MonthlyLST == "" {
		cfg.Data.MonthlyLST = def.Data.MonthlyLST
	}
	if cfg.Data.SeasonalAOD == "" {
		cfg.Data.SeasonalAOD = def.Data.SeasonalAOD
	}
	if cfg.Data.SeasonalLST == "" {
		cfg.Data.SeasonalLST = def.Data.SeasonalLST
	}
	if cfg.Data.YearlyAOD == "" {
		cfg.Data.YearlyAOD = def.Data.YearlyAOD
	}
	if cfg.Data.YearlyLST == "" {
		cfg.Data.YearlyLST = def.Data.YearlyLST
	}
	if cfg.Style.DPI <= 0 {
		cfg.Style.DPI = def.Style.DPI
	}
	if cfg.Style.Theme == "" {
		cfg.Style.Theme = def.Style.Theme
	}
	if cfg.Analyses.Descriptive.Subdir == "" {
		cfg.Analyses.Descriptive.Subdir = def.Analyses.Descriptive.Subdir
	}
	if cfg.Analyses.Trend.Subdir == "" {
		cfg.Analyses.Trend.Subdir = def.Analyses.Trend.Subdir
	}
	if cfg.Analyses.Correlation.Subdir == "" {
		cfg.Analyses.Correlation.Subdir = def.Analyses.Correlation.Subdir
	}
	if cfg.Analyses.Correlation.MaxLag <= 0 {
		cfg.Analyses.Correlation.MaxLag = def.Analyses.Correlation.MaxLag
	}
	if cfg.Analyses.Modeling.Subdir == "" {
		cfg.Analyses.Modeling.Subdir = def.Analyses.Modeling.Subdir
	}
	if cfg.Analyses.Modeling.RelationshipSubdir == "" {
		cfg.Analyses.Modeling.RelationshipSubdir = def.Analyses.Modeling.RelationshipSubdir
	}
	if cfg.Analyses.Modeling.LagMonths <= 0 {
		cfg.Analyses.Modeling.LagMonths = def.Analyses.Modeling.LagMonths
	}
	if cfg.Analyses.Modeling.STLPeriod <= 0 {
		cfg.Analyses.Modeling.STLPeriod = def.Analyses.Modeling.STLPeriod
	}
	if cfg.Analyses.Modeling.ForecastHorizon <= 0 {
		cfg.Analyses.Modeling.ForecastHorizon = def.Analyses.Modeling.ForecastHorizon
	}
	if cfg.Analyses.Modeling.MaxOrder == (OrderConfig{}) {
		cfg.Analyses.Modeling.MaxOrder = def.Analyses.Modeling.MaxOrder
	}
	if cfg.Analyses.Modeling.FallbackOrder == (OrderConfig{}) {
		cfg.Analyses.Modeling.FallbackOrder = def.Analyses.Modeling.FallbackOrder
	}
	if cfg.Analyses.Events.Subdir == "" {
		cfg.Analyses.Events.Subdir = def.Analyses.Events.Subdir
	}
	if cfg.Analyses.Events.Percentile <= 0 {
		cfg.Analyses.Events.Percentile = def.Analyses.Events.Percentile
	}
	if cfg.Analyses.Events.ZThreshold <= 0 {
		cfg.Analyses.Events.ZThreshold = def.Analyses.Events.ZThreshold
	}
	if cfg.Analyses.Events.MinDurationMonths <= 0 {
		cfg.Analyses.Events.MinDurationMonths = def.Analyses.Events.MinDurationMonths
	}
	if cfg.Analyses.Events.StoreLimit <= 0 {
		cfg.Analyses.Events.StoreLimit = def.Analyses.Events.StoreLimit
	}
	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = def.Archive.Driver
	}
}

func Validate(cfg *Config) error {
	if cfg.Data.Dir == "" {
		return errors.New("data.dir is required")
	}
	if cfg.Data.OutDir == "" {
		return errors.New("data.out_dir is required")
	}
	switch strings.ToLower(cfg.Style.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("style.theme must be dark or light, got %q", cfg.Style.Theme)
	}
	if cfg.Style.DPI <= 0 {
		return errors.New("style.dpi must be > 0")
	}
	if p := cfg.Analyses.Events.Percentile; p <= 0 || p >= 100 {
		return fmt.Errorf("analyses.events.percentile must be in (0, 100), got %v", p)
	}
	if cfg.Analyses.Events.ZThreshold <= 0 {
		return errors.New("analyses.events.z_threshold must be > 0")
	}
	if cfg.Analyses.Events.MinDurationMonths < 1 {
		return errors.New("analyses.events.min_duration_months must be >= 1")
	}
	if cfg.Analyses.Correlation.MaxLag < 1 {
		return errors.New("analyses.correlation.max_lag must be >= 1")
	}
	if cfg.Analyses.Modeling.LagMonths < 1 {
		return errors.New("analyses.modeling.lag_months must be >= 1")
	}
	if cfg.Analyses.Modeling.STLPeriod < 2 {
		return errors.New("analyses.modeling.stl_period must be >= 2")
	}
	if cfg.Analyses.Modeling.ForecastHorizon < 1 {
		return errors.New("analyses.modeling.forecast_horizon must be >= 1")
	}
	for _, oc := range []struct {
		name  string
		order OrderConfig
	}{
		{"analyses.modeling.max_order", cfg.Analyses.Modeling.MaxOrder},
		{"analyses.modeling.fallback_order", cfg.Analyses.Modeling.FallbackOrder},
	} {
		if oc.order.P < 0 || oc.order.D < 0 || oc.order.Q < 0 || oc.order.SP < 0 || oc.order.SD < 0 || oc.order.SQ < 0 {
			return fmt.Errorf("%s components must be >= 0", oc.name)
		}
		if oc.order.M < 2 {
			return fmt.Errorf("%s.m must be >= 2", oc.name)
		}
	}
	if cfg.Archive.Enabled {
		switch cfg.Archive.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("archive.driver must be sqlite or postgres, got %q", cfg.Archive.Driver)
		}
		if cfg.Archive.DSN == "" {
			return errors.New("archive.dsn required when archive.enabled is true")
		}
	}
	if cfg.Publish.Enabled {
		if len(cfg.Publish.Brokers) == 0 || cfg.Publish.Topic == "" {
			return errors.New("publish requires brokers and topic")
		}
	}
	return nil
}
