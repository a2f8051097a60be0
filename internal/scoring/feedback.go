package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

// Thresholds under which a component produces a shortcoming
const (
	keywordShortcomingThreshold   = 85
	quantShortcomingThreshold     = 80
	starShortcomingThreshold      = 80
	structureShortcomingThreshold = 80
)

const (
	maxSuggestions           = 5
	suggestedKeywordCount    = 5
	suggestedFocusSkillCount = 3
	suggestedFocusAreaCount  = 2
)

const actionVerbSuggestion = "Start bullet points with strong action verbs: Architected, Engineered, Led, Created"

func shortcomings(keyword, quant, star, structure, missing int) []string {
	var out []string
	if keyword < keywordShortcomingThreshold {
		out = append(out, fmt.Sprintf("Missing %d required keywords from job description", missing))
	}
	if quant < quantShortcomingThreshold {
		out = append(out, "Not enough quantified metrics in bullet points")
	}
	if star < starShortcomingThreshold {
		out = append(out, "Bullet points should start with stronger action verbs")
	}
	if structure < structureShortcomingThreshold {
		out = append(out, "Resume structure could be more complete")
	}
	return out
}

func suggestions(missing, weak []string, profile *types.JobProfile) []string {
	var out []string

	if len(missing) > 0 {
		s := "Add these missing keywords: " + strings.Join(truncate(missing, suggestedKeywordCount), ", ")
		if profile != nil && len(profile.KeySkills) > 0 {
			s += ". Focus on: " + strings.Join(truncate(profile.KeySkills, suggestedFocusSkillCount), ", ")
		}
		out = append(out, s)
	}

	if len(weak) > 0 {
		out = append(out, "Add specific metrics (%, $, numbers) to at least 3 bullet points")
	}

	out = append(out, actionVerbSuggestion)

	if profile != nil && len(profile.FocusAreas) > 0 {
		focus := strings.Join(truncate(profile.FocusAreas, suggestedFocusAreaCount), ", ")
		out = append(out, fmt.Sprintf("Emphasize %s experience more prominently", focus))
	}

	return truncate(out, maxSuggestions)
}
