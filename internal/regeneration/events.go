package regeneration

import "time"

// Stage names a step of the regeneration loop
type Stage string

// Stages reported through Progress
const (
	StageScoring       Stage = "scoring"
	StageScored        Stage = "scored"
	StageImproving     Stage = "improving"
	StageConsolidating Stage = "consolidating"
	StageComplete      Stage = "complete"
	StageFailed        Stage = "failed"
)

// Event is one progress notification
type Event struct {
	Stage   Stage     `json:"stage"`
	Attempt int       `json:"attempt"`
	Message string    `json:"message"`
	Score   int       `json:"score,omitempty"`
	Best    int       `json:"best,omitempty"`
	Time    time.Time `json:"time"`
}

// ProgressFunc receives events in order. It is called on the goroutine
// running the loop and must not block for long.
type ProgressFunc func(Event)
