// Package storage archives analysis results to a relational database so runs
// can be compared after the output directory has been overwritten.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"thermopoll/internal/config"
	"thermopoll/internal/model"
)

type Store interface {
	Init(ctx context.Context) error
	Close() error
	SaveRun(ctx context.Context, run model.Run) error
	SaveTrendStats(ctx context.Context, runID string, stats []model.TrendStats) error
	SaveCorrelations(ctx context.Context, runID, scope string, correlations []model.Correlation) error
	SaveEvents(ctx context.Context, runID string, events []model.Event) error
	SaveForecast(ctx context.Context, runID string, points []model.ForecastPoint) error
	SaveSteps(ctx context.Context, runID string, steps []model.StepResult) error
}

// NewStore returns nil, nil when archiving is disabled; callers treat a nil
// Store as "skip".
func NewStore(cfg config.ArchiveConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		return NewSQLite(cfg.DSN)
	case "postgres", "postgresql":
		return NewPostgres(cfg.DSN)
	default:
		return nil, errors.New("unsupported archive driver")
	}
}

type baseStore struct {
	db *sql.DB
}

func (b *baseStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func encodeJSON(value any) string {
	data, _ := json.Marshal(value)
	return string(data)
}
