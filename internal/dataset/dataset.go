package dataset

import (
	"fmt"
	"time"

	"thermopoll/internal/timeseries"
)

const (
	ColumnYear   = "year"
	ColumnMonth  = "month"
	ColumnSeason = "season"
	ColumnAOD    = "mean_aod"
	ColumnLST    = "mean_lst_celsius"
)

// MonthlyObs is one merged month of the two study variables.
type MonthlyObs struct {
	Month time.Time
	AOD   float64
	LST   float64
}

type SeasonalObs struct {
	Year   int
	Season string
	Order  int
	AOD    float64
	LST    float64
}

type YearlyObs struct {
	Year     int
	AOD      float64
	LST      float64
	Complete bool
	Coverage string
}

// Dataset holds the merged study tables. Monthly is always chronological;
// Seasonal is ordered by year then season order; Yearly by year.
type Dataset struct {
	Monthly  []MonthlyObs
	Seasonal []SeasonalObs
	Yearly   []YearlyObs

	DroppedRows   int
	DuplicateRows int
	UnmatchedRows int
}

// MonthlySeries splits the merged monthly table into the two named series.
func (d *Dataset) MonthlySeries() (aod, lst *timeseries.Series, err error) {
	months := make([]time.Time, len(d.Monthly))
	aodVals := make([]float64, len(d.Monthly))
	lstVals := make([]float64, len(d.Monthly))
	for i, obs := range d.Monthly {
		months[i] = obs.Month
		aodVals[i] = obs.AOD
		lstVals[i] = obs.LST
	}
	aod, err = timeseries.New("AOD", months, aodVals)
	if err != nil {
		return nil, nil, fmt.Errorf("monthly AOD series: %w", err)
	}
	lst, err = timeseries.New("LST", months, lstVals)
	if err != nil {
		return nil, nil, fmt.Errorf("monthly LST series: %w", err)
	}
	return aod, lst, nil
}
