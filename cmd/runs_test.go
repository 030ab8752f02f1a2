package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lotcheck/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	runs := []model.CompareRun{
		{
			ID:         "0b1f2a3c-4d5e-6f70-8192-a3b4c5d6e7f8",
			URL:        "https://www.catawiki.com/en/l/12345-rolex-submariner-16610-full-set",
			Status:     model.RunStatusComplete,
			ItemCount:  3,
			DurationMS: 42150,
			CreatedAt:  created,
		},
		{
			ID:        "ffeeddcc-1122-3344-5566-778899aabbcc",
			URL:       "https://www.catawiki.com/l/9",
			Status:    model.RunStatusFailed,
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "0b1f2a3c")
	assert.NotContains(t, out, "0b1f2a3c-4d5e")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "42s")
	assert.Contains(t, out, "2026-08-30 14:30")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "0b1f2a3c", truncateID("0b1f2a3c-4d5e-6f70"))
	assert.Equal(t, "short", truncateID("short"))
}
