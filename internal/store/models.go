package store

import (
	"time"

	"github.com/sadopc/pomocycle/internal/cycles"
)

// CycleFilter is used to filter cycles in queries. Zero values match all.
type CycleFilter struct {
	Status cycles.Status
	Task   string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// TaskSummary aggregates the history of one task.
type TaskSummary struct {
	Task         string
	Cycles       int
	Finished     int
	Interrupted  int
	FocusSeconds int64
}
