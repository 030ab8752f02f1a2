package model

import "time"

// RunStatus tracks the lifecycle of a compare run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// CompareRun is the persisted record of one compare request.
type CompareRun struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	IncludeResearch bool      `json:"include_research"`
	Status          RunStatus `json:"status"`
	ItemCount       int       `json:"item_count"`
	Verdicts        map[Verdict]int `json:"verdicts,omitempty"`
	DurationMS      int64     `json:"duration_ms,omitempty"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RunSummary carries the figures written back when a run completes.
type RunSummary struct {
	ItemCount  int             `json:"item_count"`
	Verdicts   map[Verdict]int `json:"verdicts,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}
