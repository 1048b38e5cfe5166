package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshStatus is the outcome of a bulk-load operation.
type RefreshStatus string

const (
	RefreshStatusSuccess RefreshStatus = "SUCCESS"
	RefreshStatusNoData  RefreshStatus = "NO_DATA"
	RefreshStatusError   RefreshStatus = "ERROR"
	RefreshStatusPartial RefreshStatus = "PARTIAL"
)

// RefreshLog is an append-only audit record of one bulk-load invocation.
// A row is written once at the end of each refresh attempt and never mutated
// afterwards; readers only ever ask for the most recent entry.
type RefreshLog struct {
	ID               uuid.UUID     `json:"id"`
	Kind             string        `json:"kind"`
	Status           RefreshStatus `json:"status"`
	RecordsProcessed int           `json:"records_processed"`
	ErrorMessage     *string       `json:"error_message,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      time.Time     `json:"completed_at"`
}

// NewRefreshLog starts an audit record for a refresh of the given kind.
func NewRefreshLog(kind string) *RefreshLog {
	return &RefreshLog{
		ID:        uuid.New(),
		Kind:      kind,
		StartedAt: time.Now(),
	}
}

// Complete finalizes the entry with an outcome and record count.
func (l *RefreshLog) Complete(status RefreshStatus, recordsProcessed int) {
	l.Status = status
	l.RecordsProcessed = recordsProcessed
	l.CompletedAt = time.Now()
}

// Fail finalizes the entry as an error, keeping whatever count was reached.
func (l *RefreshLog) Fail(err error, recordsProcessed int) {
	msg := err.Error()
	l.Status = RefreshStatusError
	l.RecordsProcessed = recordsProcessed
	l.ErrorMessage = &msg
	l.CompletedAt = time.Now()
}
