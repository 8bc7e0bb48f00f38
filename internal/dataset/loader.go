package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"thermopoll/internal/config"
	"thermopoll/internal/timeseries"
)

type Loader struct {
	cfg *config.Config
	log *slog.Logger
}

func NewLoader(cfg *config.Config, log *slog.Logger) *Loader {
	return &Loader{cfg: cfg, log: log}
}

// Load reads and merges all six study tables.
func (l *Loader) Load() (*Dataset, error) {
	ds, err := l.LoadMonthly()
	if err != nil {
		return nil, err
	}
	if err := l.loadSeasonal(ds); err != nil {
		return nil, err
	}
	if err := l.loadYearly(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadMonthly reads and merges only the monthly tables, which every
// analysis except the yearly correlation depends on.
func (l *Loader) LoadMonthly() (*Dataset, error) {
	ds := &Dataset{}
	aod, err := l.readMonthly(l.cfg.Data.MonthlyAOD, ColumnAOD, ds)
	if err != nil {
		return nil, err
	}
	lst, err := l.readMonthly(l.cfg.Data.MonthlyLST, ColumnLST, ds)
	if err != nil {
		return nil, err
	}
	ds.Monthly = mergeMonthly(aod, lst, ds)
	if len(ds.Monthly) == 0 {
		return nil, errors.New("monthly tables have no overlapping months")
	}
	l.log.Info("monthly data loaded",
		"months", len(ds.Monthly),
		"dropped_rows", ds.DroppedRows,
		"duplicate_rows", ds.DuplicateRows,
		"unmatched_rows", ds.UnmatchedRows)
	return ds, nil
}

// LoadYearly reads only the yearly tables.
func (l *Loader) LoadYearly() (*Dataset, error) {
	ds := &Dataset{}
	if err := l.loadYearly(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (l *Loader) loadSeasonal(ds *Dataset) error {
	aod, err := l.readKeyed(l.cfg.Data.SeasonalAOD, ColumnSeason, ColumnAOD, ds)
	if err != nil {
		return err
	}
	lst, err := l.readKeyed(l.cfg.Data.SeasonalLST, ColumnSeason, ColumnLST, ds)
	if err != nil {
		return err
	}
	for key, a := range aod {
		v, ok := lst[key]
		if !ok {
			ds.UnmatchedRows++
			continue
		}
		label, order, known := NormalizeSeason(key.label)
		if !known {
			ds.DroppedRows++
			l.log.Warn("unknown season label dropped", "season", key.label, "year", key.year)
			continue
		}
		ds.Seasonal = append(ds.Seasonal, SeasonalObs{
			Year:   key.year,
			Season: label,
			Order:  order,
			AOD:    a,
			LST:    v,
		})
	}
	sort.Slice(ds.Seasonal, func(i, j int) bool {
		if ds.Seasonal[i].Year != ds.Seasonal[j].Year {
			return ds.Seasonal[i].Year < ds.Seasonal[j].Year
		}
		return ds.Seasonal[i].Order < ds.Seasonal[j].Order
	})
	return nil
}

func (l *Loader) loadYearly(ds *Dataset) error {
	aod, err := l.readKeyed(l.cfg.Data.YearlyAOD, "", ColumnAOD, ds)
	if err != nil {
		return err
	}
	lst, err := l.readKeyed(l.cfg.Data.YearlyLST, "", ColumnLST, ds)
	if err != nil {
		return err
	}
	policy := NewYearPolicy(l.cfg.Data.ExcludedYears)
	for key, a := range aod {
		v, ok := lst[key]
		if !ok {
			ds.UnmatchedRows++
			continue
		}
		obs := YearlyObs{Year: key.year, AOD: a, LST: v}
		obs.Complete, obs.Coverage = policy.Coverage(key.year)
		ds.Yearly = append(ds.Yearly, obs)
	}
	sort.Slice(ds.Yearly, func(i, j int) bool { return ds.Yearly[i].Year < ds.Yearly[j].Year })
	if len(ds.Yearly) == 0 {
		return errors.New("yearly tables have no overlapping years")
	}
	return nil
}

type rowKey struct {
	year  int
	month int
	label string
}

func (l *Loader) readMonthly(name, valueCol string, ds *Dataset) (map[rowKey]float64, error) {
	path := filepath.Join(l.cfg.Data.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols, err := columnIndex(header, path, ColumnYear, ColumnMonth, valueCol)
	if err != nil {
		return nil, err
	}

	out := make(map[rowKey]float64)
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++
		year, ok1 := parseInt(record, cols[ColumnYear])
		month, ok2 := parseInt(record, cols[ColumnMonth])
		value, ok3 := parseFloat(record, cols[valueCol])
		if !ok1 || !ok2 || !ok3 || month < 1 || month > 12 {
			ds.DroppedRows++
			l.log.Warn("malformed row dropped", "file", name, "line", line)
			continue
		}
		key := rowKey{year: year, month: month}
		if _, seen := out[key]; seen {
			ds.DuplicateRows++
			l.log.Warn("duplicate month dropped", "file", name, "year", year, "month", month)
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", path)
	}
	return out, nil
}

// readKeyed reads a Year(+label)-keyed table. labelCol may be empty for the
// yearly schema.
func (l *Loader) readKeyed(name, labelCol, valueCol string, ds *Dataset) (map[rowKey]float64, error) {
	path := filepath.Join(l.cfg.Data.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	want := []string{ColumnYear, valueCol}
	if labelCol != "" {
		want = append(want, labelCol)
	}
	cols, err := columnIndex(header, path, want...)
	if err != nil {
		return nil, err
	}

	out := make(map[rowKey]float64)
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++
		year, ok1 := parseInt(record, cols[ColumnYear])
		value, ok2 := parseFloat(record, cols[valueCol])
		if !ok1 || !ok2 {
			ds.DroppedRows++
			l.log.Warn("malformed row dropped", "file", name, "line", line)
			continue
		}
		key := rowKey{year: year}
		if labelCol != "" {
			idx := cols[labelCol]
			if idx >= len(record) {
				ds.DroppedRows++
				continue
			}
			key.label = strings.TrimSpace(record[idx])
		}
		if _, seen := out[key]; seen {
			ds.DuplicateRows++
			l.log.Warn("duplicate row dropped", "file", name, "year", year, "label", key.label)
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", path)
	}
	return out, nil
}

func mergeMonthly(aod, lst map[rowKey]float64, ds *Dataset) []MonthlyObs {
	out := make([]MonthlyObs, 0, len(aod))
	for key, a := range aod {
		v, ok := lst[key]
		if !ok {
			ds.UnmatchedRows++
			continue
		}
		month := timeseries.MonthStart(time.Date(key.year, time.Month(key.month), 1, 0, 0, 0, 0, time.UTC))
		out = append(out, MonthlyObs{Month: month, AOD: a, LST: v})
	}
	for key := range lst {
		if _, ok := aod[key]; !ok {
			ds.UnmatchedRows++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func columnIndex(header []string, path string, want ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	out := make(map[string]int, len(want))
	for _, name := range want {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
		out[name] = i
	}
	return out, nil
}

func parseInt(record []string, idx int) (int, bool) {
	if idx >= len(record) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(record[idx]))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(record []string, idx int) (float64, bool) {
	if idx >= len(record) {
		return 0, false
	}
	s := strings.TrimSpace(record[idx])
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
