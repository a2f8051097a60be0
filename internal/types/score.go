// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ScoreSource identifies which scorer produced a record
type ScoreSource string

// Score sources
const (
	SourceRule   ScoreSource = "rule"
	SourceAI     ScoreSource = "ai"
	SourceHybrid ScoreSource = "hybrid"
)

// ScoreRecord is an immutable snapshot of one scoring call. All sub-scores are 0-100.
type ScoreRecord struct {
	Source              ScoreSource `json:"source"`
	Overall             int         `json:"overall"`
	KeywordMatch        int         `json:"keyword_match"`
	StarCompliance      int         `json:"star_compliance"`
	Quantification      int         `json:"quantification"`
	ActionVerbStrength  int         `json:"action_verb_strength"`
	FormatCompliance    int         `json:"format_compliance"`
	SectionCompleteness int         `json:"section_completeness"`
	Suggestions         []string    `json:"suggestions"`
	Shortcomings        []string    `json:"shortcomings"`
	MissingKeywords     []string    `json:"missing_keywords"`
	WeakBullets         []string    `json:"weak_bullets"`
}

// ScoreAttempt is one entry of a ScoreHistory
type ScoreAttempt struct {
	Final    int           `json:"final"`
	AI       int           `json:"ai"`
	Rule     int           `json:"rule"`
	Retry    int           `json:"retry"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	FellBack bool          `json:"fell_back,omitempty"`
}

// ScoreHistory is the caller-owned progression of scoring attempts. It is a
// value: Append returns a new history and leaves the receiver untouched.
type ScoreHistory struct {
	Attempts []ScoreAttempt `json:"attempts"`
}

// Append returns a copy of h with a appended
func (h ScoreHistory) Append(a ScoreAttempt) ScoreHistory {
	attempts := make([]ScoreAttempt, len(h.Attempts), len(h.Attempts)+1)
	copy(attempts, h.Attempts)
	return ScoreHistory{Attempts: append(attempts, a)}
}

// Len returns the number of attempts
func (h ScoreHistory) Len() int {
	return len(h.Attempts)
}

// Best returns the attempt with the highest final score. The earliest wins ties.
func (h ScoreHistory) Best() (ScoreAttempt, bool) {
	if len(h.Attempts) == 0 {
		return ScoreAttempt{}, false
	}
	best := h.Attempts[0]
	for _, a := range h.Attempts[1:] {
		if a.Final > best.Final {
			best = a
		}
	}
	return best, true
}

// Progression returns the final score of each attempt in order
func (h ScoreHistory) Progression() []int {
	out := make([]int, len(h.Attempts))
	for i, a := range h.Attempts {
		out[i] = a.Final
	}
	return out
}

// Stale reports whether the last two attempts produced the same final score
func (h ScoreHistory) Stale() bool {
	n := len(h.Attempts)
	return n >= 2 && h.Attempts[n-1].Final == h.Attempts[n-2].Final
}

// HistoryStats summarizes a score progression
type HistoryStats struct {
	TotalAttempts int     `json:"total_attempts"`
	BestScore     int     `json:"best_score"`
	AverageScore  float64 `json:"average_score"`
	FirstScore    int     `json:"first_score"`
	Improvement   int     `json:"improvement"`
}

// Stats summarizes the history
func (h ScoreHistory) Stats() HistoryStats {
	if len(h.Attempts) == 0 {
		return HistoryStats{}
	}

	best, _ := h.Best()
	sum := 0
	for _, a := range h.Attempts {
		sum += a.Final
	}
	return HistoryStats{
		TotalAttempts: len(h.Attempts),
		BestScore:     best.Final,
		AverageScore:  float64(sum) / float64(len(h.Attempts)),
		FirstScore:    h.Attempts[0].Final,
		Improvement:   best.Final - h.Attempts[0].Final,
	}
}
