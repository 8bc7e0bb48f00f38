package model

import "time"

// Variable names the two study series.
type Variable string

const (
	VariableAOD Variable = "AOD"
	VariableLST Variable = "LST"
)

type SummaryStats struct {
	Variable Variable `json:"variable"`
	N        int      `json:"n"`
	Mean     float64  `json:"mean"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	StdDev   float64  `json:"std_dev"`
	Median   float64  `json:"median"`
	Skewness float64  `json:"skewness"`
	Kurtosis float64  `json:"kurtosis"`
}

// TrendStats carries the Mann-Kendall result alongside the least-squares
// fit for the same series, the way the study reports them side by side.
type TrendStats struct {
	Variable     Variable `json:"variable"`
	Trend        string   `json:"trend"`
	PValue       float64  `json:"p_value"`
	ZStatistic   float64  `json:"z_statistic"`
	SenSlope     float64  `json:"sen_slope"`
	AnnualChange float64  `json:"annual_change"`
	Slope        float64  `json:"slope"`
	Intercept    float64  `json:"intercept"`
	RSquared     float64  `json:"r_squared"`
	Significance string   `json:"significance"`
	N            int      `json:"n"`
}

// Correlation is one cell of the relationship table. Lag follows the study
// convention: positive means AOD leads LST by that many months, negative
// means AOD lags LST.
type Correlation struct {
	Method       string  `json:"method"`
	Lag          int     `json:"lag"`
	R            float64 `json:"r"`
	PValue       float64 `json:"p_value"`
	N            int     `json:"n"`
	Significance string  `json:"significance"`
}

// RegressionSummary is the reported least-squares fit with the note that
// qualifies it. NaN statistics mark a fit that could not be computed.
type RegressionSummary struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
	StdErr    float64 `json:"std_err"`
	N         int     `json:"n"`
	Note      string  `json:"note,omitempty"`
}

type CCFPoint struct {
	Lag int     `json:"lag"`
	R   float64 `json:"r"`
}

// Event is one detected exceedance episode on a monthly anomaly series.
type Event struct {
	Variable Variable  `json:"variable"`
	Method   string    `json:"method"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Months   int       `json:"months"`
	Peak     float64   `json:"peak"`
}

type ForecastPoint struct {
	Month time.Time `json:"month"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Run identifies one pipeline invocation. Archived results hang off its ID
// so repeated runs over the same inputs stay distinguishable.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Analyses   []string  `json:"analyses"`
	DataDir    string    `json:"data_dir"`
	OutDir     string    `json:"out_dir"`
}

type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one best-effort pipeline step (a figure
// save, a table export, an archive write). Analyses collect these instead of
// aborting on the first sink failure.
type StepResult struct {
	Analysis string        `json:"analysis"`
	Step     string        `json:"step"`
	Status   StepStatus    `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
}
