package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lotcheck/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS compare_runs (
	id               TEXT PRIMARY KEY,
	url              TEXT NOT NULL,
	include_research INTEGER NOT NULL DEFAULT 1,
	status           TEXT NOT NULL DEFAULT 'running',
	item_count       INTEGER NOT NULL DEFAULT 0,
	verdicts         TEXT,
	duration_ms      INTEGER NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_compare_runs_status ON compare_runs(status);
CREATE INDEX IF NOT EXISTS idx_compare_runs_created_at ON compare_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, url string, includeResearch bool) (*model.CompareRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compare_runs (id, url, include_research, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, url, includeResearch, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
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

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	verdicts, err := json.Marshal(summary.Verdicts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal verdicts")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE compare_runs SET status = ?, item_count = ?, verdicts = ?, duration_ms = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), summary.ItemCount, string(verdicts), summary.DurationMS, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE compare_runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.CompareRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, include_research, status, item_count, verdicts, duration_ms, error, created_at, updated_at
		 FROM compare_runs WHERE id = ?`, runID)

	run, err := scanRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(err, "sqlite: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.CompareRun, error) {
	query := `SELECT id, url, include_research, status, item_count, verdicts, duration_ms, error, created_at, updated_at
		FROM compare_runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + strconv.Itoa(filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.CompareRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// scanRun decodes one compare_runs row from any Scan-shaped source.
func scanRun(scan func(dest ...any) error) (*model.CompareRun, error) {
	var run model.CompareRun
	var verdicts sql.NullString
	var status string

	err := scan(
		&run.ID, &run.URL, &run.IncludeResearch, &status, &run.ItemCount,
		&verdicts, &run.DurationMS, &run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)

	if verdicts.Valid && verdicts.String != "" && verdicts.String != "null" {
		if err := json.Unmarshal([]byte(verdicts.String), &run.Verdicts); err != nil {
			return nil, eris.Wrap(err, "unmarshal verdicts")
		}
	}
	return &run, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
