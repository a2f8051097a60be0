// Package metrics extracts per-bullet features: quantification markers, strong
// action verbs and a 0-100 bullet strength score. All functions are pure.
package metrics

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-ats/internal/lexicon"
)

// Features are the derived properties of a single bullet
type Features struct {
	HasMetric            bool `json:"has_metric"`
	StartsWithStrongVerb bool `json:"starts_with_strong_verb"`
	ContainsStrongVerb   bool `json:"contains_strong_verb"`
	Strength             int  `json:"strength"`
}

// Extract computes all features of a bullet against the known-weak set
func Extract(text string, weak WeakSet) Features {
	return Features{
		HasMetric:            HasMetric(text),
		StartsWithStrongVerb: StartsWithStrongVerb(text),
		ContainsStrongVerb:   ContainsStrongVerb(text),
		Strength:             Strength(text, weak),
	}
}

// HasMetric reports whether any quantification pattern matches the text
func HasMetric(text string) bool {
	for _, re := range lexicon.MetricPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// StartsWithStrongVerb reports whether the trimmed, lowercased text begins with a strong action verb.
// Matching is by prefix, so "Led" also matches "Leading".
func StartsWithStrongVerb(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, verb := range lexicon.StrongActionVerbs {
		if strings.HasPrefix(lower, verb) {
			return true
		}
	}
	return false
}

// ContainsStrongVerb reports whether a strong action verb occurs anywhere in the text
func ContainsStrongVerb(text string) bool {
	lower := strings.ToLower(text)
	for _, verb := range lexicon.StrongActionVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}

// HasWeakIndicator reports whether the text contains a passive or soft phrase
func HasWeakIndicator(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, indicator := range lexicon.WeakIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// WordCount returns the number of whitespace-separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func hasDigit(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}
