// Package model defines the data types flowing through the seeding pipeline.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ColumnSpec describes how one positional column of the source file maps to
// the target table. Specs are created once per run by the header resolver and
// are immutable afterwards.
type ColumnSpec struct {
	// SourceIndex is the zero-based position of the column in the file.
	SourceIndex int
	// TargetName is the destination column name. Empty when Skip is true.
	TargetName string
	// Skip marks a column that is excluded from insertion entirely.
	Skip bool
}

// Record is one row's data expressed as target-column-name to value.
// Values are strings taken from the file, defaults of any scalar type,
// or nil for an intentional NULL.
type Record map[string]interface{}

// NewRecord creates an empty Record.
func NewRecord() Record {
	return make(Record)
}

// Has reports whether the record already carries a value for key.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Copy returns a shallow copy of the record.
func (r Record) Copy() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RunStatus represents the terminal state of a seeding run.
type RunStatus string

const (
	// RunStatusCompleted indicates every retained row was processed and all chunks flushed.
	RunStatusCompleted RunStatus = "COMPLETED"
	// RunStatusFailed indicates the run ended before draining, either on a
	// configuration error or a write failure.
	RunStatusFailed RunStatus = "FAILED"
)

// RunResult summarizes one seeding run.
type RunResult struct {
	// ID is a unique identifier for this run.
	ID string
	// Table is the destination table name.
	Table string
	// TotalRows counts all non-empty data rows read from the source,
	// including offset-skipped rows and rows rejected for shape mismatch.
	TotalRows int
	// InsertedRows counts records handed to the batch loader.
	InsertedRows int
	// RejectedRows counts rows dropped for shape mismatch.
	RejectedRows int
	// Status is the terminal state of the run.
	Status RunStatus
	// StartTime and EndTime bound the run.
	StartTime time.Time
	EndTime   time.Time
	// FailureErr holds the error that ended a failed run, if any.
	FailureErr error
}

// NewRunResult creates a RunResult for the given table with a fresh run ID.
func NewRunResult(table string) *RunResult {
	return &RunResult{
		ID:        uuid.New().String(),
		Table:     table,
		Status:    RunStatusFailed,
		StartTime: time.Now(),
	}
}

// MarkCompleted stamps the end time and the completed status.
func (r *RunResult) MarkCompleted() {
	r.Status = RunStatusCompleted
	r.EndTime = time.Now()
}

// MarkFailed stamps the end time, the failed status and the causing error.
func (r *RunResult) MarkFailed(err error) {
	r.Status = RunStatusFailed
	r.FailureErr = err
	r.EndTime = time.Now()
}

// Duration returns the wall time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
