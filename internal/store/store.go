// Package store persists compare-run history. Nothing in the comparison
// path reads from it; it exists for the runs CLI and operational forensics.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lotcheck/internal/config"
	"github.com/sells-group/lotcheck/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for compare runs.
type Store interface {
	CreateRun(ctx context.Context, url string, includeResearch bool) (*model.CompareRun, error)
	CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error
	FailRun(ctx context.Context, runID string, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.CompareRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.CompareRun, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store backend selected by the config.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
