// Package pagefill classifies how well a rendered resume fills its pages and
// decides whether the next regeneration should add content or consolidate.
package pagefill

import (
	"encoding/json"
	"fmt"
	"math"
)

// Fill thresholds, in percent of the printable area
const (
	TargetFill         = 95.0
	MinFill            = 85.0
	SparseTrailingFill = 20.0
	minSuggested       = 3
	fillPerBullet      = 5.0
	defaultImproveAsk  = 7
)

// Status is the outcome of a page-fill check
type Status int

const (
	// OnTarget means no page-driven change is needed
	OnTarget Status = iota
	// NeedsMoreContent means the last page is underfilled
	NeedsMoreContent
	// NeedsConsolidation means a trailing page holds only a few lines
	NeedsConsolidation
)

var statusNames = map[Status]string{
	OnTarget:           "on_target",
	NeedsMoreContent:   "needs_more_content",
	NeedsConsolidation: "needs_consolidation",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON writes the status name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a status name
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, n := range statusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown page fill status %q", name)
}

// Report is the result of Classify
type Report struct {
	Status           Status    `json:"status"`
	Pages            int       `json:"pages"`
	PageFills        []float64 `json:"page_fills"`
	LastPageFill     float64   `json:"last_page_fill"`
	SuggestedBullets int       `json:"suggested_bullets,omitempty"`
	Suggestion       string    `json:"suggestion,omitempty"`
}

// Classify turns per-page fill percentages into a Report. A multi-page
// document whose last page is under 20% needs consolidation; a last page
// under 85% needs more content; anything else is on target.
func Classify(pageFills []float64) Report {
	report := Report{
		Status:    OnTarget,
		Pages:     len(pageFills),
		PageFills: append([]float64(nil), pageFills...),
	}
	if len(pageFills) == 0 {
		return report
	}

	last := pageFills[len(pageFills)-1]
	report.LastPageFill = last

	switch {
	case len(pageFills) > 1 && last < SparseTrailingFill:
		report.Status = NeedsConsolidation
		report.Suggestion = fmt.Sprintf("Page %d is only %.0f%% full; consolidate weak bullets to drop it", len(pageFills), last)
	case last < MinFill:
		report.Status = NeedsMoreContent
		report.SuggestedBullets = max(minSuggested, int(math.Floor((TargetFill-last)/fillPerBullet)))
		report.Suggestion = fmt.Sprintf("Page %d is %.0f%% full; add at least %d more quantified bullets", len(pageFills), last, report.SuggestedBullets)
	}
	return report
}

// ImprovementBulletCount is how many new bullets to request from the
// improver. Underfilled pages ask for the suggestion plus a buffer that grows
// the emptier the page is.
func ImprovementBulletCount(report *Report) int {
	if report == nil || report.Status != NeedsMoreContent {
		return defaultImproveAsk
	}
	switch {
	case report.LastPageFill < 70:
		return report.SuggestedBullets + 4
	case report.LastPageFill < MinFill:
		return report.SuggestedBullets + 3
	default:
		return report.SuggestedBullets + 2
	}
}
