package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"thermopoll/internal/model"
)

type postgresStore struct {
	baseStore
}

func NewPostgres(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "postgres://localhost:5432/thermopoll?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{baseStore{db: db}}, nil
}

func (s *postgresStore) Init(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			analyses_json JSONB NOT NULL,
			data_dir TEXT NOT NULL,
			out_dir TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trend_stats (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			variable TEXT NOT NULL,
			trend TEXT NOT NULL,
			p_value DOUBLE PRECISION NOT NULL,
			z_statistic DOUBLE PRECISION NOT NULL,
			sen_slope DOUBLE PRECISION NOT NULL,
			annual_change DOUBLE PRECISION NOT NULL,
			slope DOUBLE PRECISION NOT NULL,
			intercept DOUBLE PRECISION NOT NULL,
			r_squared DOUBLE PRECISION NOT NULL,
			significance TEXT NOT NULL,
			n INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS correlations (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			scope TEXT NOT NULL,
			method TEXT NOT NULL,
			lag INTEGER NOT NULL,
			r DOUBLE PRECISION NOT NULL,
			p_value DOUBLE PRECISION NOT NULL,
			n INTEGER NOT NULL,
			significance TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			variable TEXT NOT NULL,
			method TEXT NOT NULL,
			start_month TIMESTAMPTZ NOT NULL,
			end_month TIMESTAMPTZ NOT NULL,
			months INTEGER NOT NULL,
			peak DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id)`,
		`CREATE TABLE IF NOT EXISTS forecast_points (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			month TIMESTAMPTZ NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			lower_bound DOUBLE PRECISION NOT NULL,
			upper_bound DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			analysis TEXT NOT NULL,
			step TEXT NOT NULL,
			status TEXT NOT NULL,
			output TEXT,
			error TEXT,
			elapsed_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresStore) SaveRun(ctx context.Context, run model.Run) error {
	if s.db == nil || run.ID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, analyses_json, data_dir, out_dir)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		encodeJSON(run.Analyses),
		run.DataDir,
		run.OutDir,
	)
	return err
}

func (s *postgresStore) SaveTrendStats(ctx context.Context, runID string, stats []model.TrendStats) error {
	if s.db == nil || runID == "" || len(stats) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trend_stats (run_id, variable, trend, p_value, z_statistic, sen_slope, annual_change, slope, intercept, r_squared, significance, n)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, ts := range stats {
		if _, err := stmt.ExecContext(ctx,
			runID,
			string(ts.Variable),
			ts.Trend,
			ts.PValue,
			ts.ZStatistic,
			ts.SenSlope,
			ts.AnnualChange,
			ts.Slope,
			ts.Intercept,
			ts.RSquared,
			ts.Significance,
			ts.N,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresStore) SaveCorrelations(ctx context.Context, runID, scope string, correlations []model.Correlation) error {
	if s.db == nil || runID == "" || len(correlations) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO correlations (run_id, scope, method, lag, r, p_value, n, significance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, c := range correlations {
		if _, err := stmt.ExecContext(ctx,
			runID,
			scope,
			c.Method,
			c.Lag,
			c.R,
			c.PValue,
			c.N,
			c.Significance,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresStore) SaveEvents(ctx context.Context, runID string, events []model.Event) error {
	if s.db == nil || runID == "" || len(events) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, variable, method, start_month, end_month, months, peak)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			runID,
			string(ev.Variable),
			ev.Method,
			ev.Start.UTC(),
			ev.End.UTC(),
			ev.Months,
			ev.Peak,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresStore) SaveForecast(ctx context.Context, runID string, points []model.ForecastPoint) error {
	if s.db == nil || runID == "" || len(points) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO forecast_points (run_id, month, value, lower_bound, upper_bound)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, pt := range points {
		if _, err := stmt.ExecContext(ctx,
			runID,
			pt.Month.UTC(),
			pt.Value,
			pt.Lower,
			pt.Upper,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresStore) SaveSteps(ctx context.Context, runID string, steps []model.StepResult) error {
	if s.db == nil || runID == "" || len(steps) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (run_id, analysis, step, status, output, error, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, st := range steps {
		if _, err := stmt.ExecContext(ctx,
			runID,
			st.Analysis,
			st.Step,
			string(st.Status),
			st.Output,
			st.Error,
			st.Elapsed.Milliseconds(),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
