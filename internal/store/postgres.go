package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lotcheck/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS compare_runs (
	id               TEXT PRIMARY KEY,
	url              TEXT NOT NULL,
	include_research BOOLEAN NOT NULL DEFAULT TRUE,
	status           TEXT NOT NULL DEFAULT 'running',
	item_count       INTEGER NOT NULL DEFAULT 0,
	verdicts         JSONB,
	duration_ms      BIGINT NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_compare_runs_status ON compare_runs(status);
CREATE INDEX IF NOT EXISTS idx_compare_runs_created_at ON compare_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, url string, includeResearch bool) (*model.CompareRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO compare_runs (id, url, include_research, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, url, includeResearch, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.CompareRun{
		ID:              id,
		URL:             url,
		IncludeResearch: includeResearch,
		Status:          model.RunStatusRunning,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	verdicts, err := json.Marshal(summary.Verdicts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal verdicts")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE compare_runs SET status = $1, item_count = $2, verdicts = $3, duration_ms = $4, updated_at = $5 WHERE id = $6`,
		string(model.RunStatusComplete), summary.ItemCount, verdicts, summary.DurationMS, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE compare_runs SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(model.RunStatusFailed), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.CompareRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, url, include_research, status, item_count, verdicts, duration_ms, error, created_at, updated_at
		 FROM compare_runs WHERE id = $1`, runID)

	run, err := scanPgRun(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "postgres: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.CompareRun, error) {
	query := `SELECT id, url, include_research, status, item_count, verdicts, duration_ms, error, created_at, updated_at
		FROM compare_runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + strconv.Itoa(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.CompareRun
	for rows.Next() {
		run, err := scanPgRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPgRun(scan func(dest ...any) error) (*model.CompareRun, error) {
	var run model.CompareRun
	var verdicts []byte
	var status string

	err := scan(
		&run.ID, &run.URL, &run.IncludeResearch, &status, &run.ItemCount,
		&verdicts, &run.DurationMS, &run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)

	if len(verdicts) > 0 && string(verdicts) != "null" {
		if err := json.Unmarshal(verdicts, &run.Verdicts); err != nil {
			return nil, eris.Wrap(err, "unmarshal verdicts")
		}
	}
	return &run, nil
}
