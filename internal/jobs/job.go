// Package jobs tracks asynchronous tailoring runs. A Store keeps job state;
// the Runner executes regeneration in the background and records progress.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-ats/internal/regeneration"
)

// Status is the lifecycle state of a job
type Status string

// Job states
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the job will not change again
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job is the externally visible state of one tailoring run
type Job struct {
	ID        uuid.UUID            `json:"id"`
	Status    Status               `json:"status"`
	RunID     *uuid.UUID           `json:"run_id,omitempty"`
	Events    []regeneration.Event `json:"events"`
	Result    *regeneration.Result `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// NotFoundError is returned for unknown job IDs
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job not found: %s", e.ID)
}

// Store persists jobs. Get returns a copy that callers may modify freely.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id uuid.UUID) (*Job, error)
	// Update applies fn to the stored job and saves the result
	Update(ctx context.Context, id uuid.UUID, fn func(*Job)) error
}
