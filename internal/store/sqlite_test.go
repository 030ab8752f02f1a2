package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lotcheck/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "https://www.catawiki.com/en/a/123", true)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "https://www.catawiki.com/en/a/123", got.URL)
	assert.True(t, got.IncludeResearch)
	assert.Equal(t, model.RunStatusRunning, got.Status)
}

func TestSQLite_CompleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "https://www.catawiki.com/en/a/123", false)
	require.NoError(t, err)

	summary := model.RunSummary{
		ItemCount:  3,
		Verdicts:   map[model.Verdict]int{model.VerdictFair: 2, model.VerdictUnknown: 1},
		DurationMS: 1234,
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, summary))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 3, got.ItemCount)
	assert.Equal(t, int64(1234), got.DurationMS)
	assert.Equal(t, summary.Verdicts, got.Verdicts)
}

func TestSQLite_FailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "https://www.catawiki.com/en/a/123", true)
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, "ebay: search status 503"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "ebay: search status 503", got.Error)
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CompleteRun(ctx, "nope", model.RunSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = s.FailRun(ctx, "nope", "x")
	require.Error(t, err)

	_, err = s.GetRun(ctx, "nope")
	require.Error(t, err)
}

func TestSQLite_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run, err := s.CreateRun(ctx, "https://www.catawiki.com/en/a/123", true)
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, s.FailRun(ctx, run.ID, "boom"))
		}
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	assert.Len(t, failed, 1)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
