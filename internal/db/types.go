package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	RunStatusRunning     = "running"
	RunStatusCompleted   = "completed"
	RunStatusBelowTarget = "below_target"
	RunStatusFailed      = "failed"
)

// Run represents a tailoring run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Company     string     `json:"company"`
	RoleTitle   string     `json:"role_title"`
	JobURL      string     `json:"job_url"`
	Status      string     `json:"status"`
	TargetScore int        `json:"target_score"`
	BestScore   *int       `json:"best_score,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunInput is the data needed to record a finished run
type RunInput struct {
	Company     string
	RoleTitle   string
	JobURL      string
	Status      string
	TargetScore int
	BestScore   int
}

// ScoreAttempt is one stored scoring attempt of a run
type ScoreAttempt struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"run_id"`
	Attempt    int       `json:"attempt"`
	FinalScore int       `json:"final_score"`
	AIScore    int       `json:"ai_score"`
	RuleScore  int       `json:"rule_score"`
	Retry      int       `json:"retry"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	FellBack   bool      `json:"fell_back"`
	CreatedAt  time.Time `json:"created_at"`
}
