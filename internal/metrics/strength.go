package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-ats/internal/lexicon"
)

// Strength scoring constants
const (
	BaseStrength      = 50
	weakMatchPenalty  = 30
	shortPenalty      = 20
	noDigitPenalty    = 15
	strongVerbBonus   = 10
	metricSymbolBonus = 10
	shortBulletLength = 50
	minStrength       = 0
	maxStrength       = 100
)

// WeakSet is a set of lowercased, trimmed bullet texts known to be weak
type WeakSet map[string]struct{}

// NewWeakSet builds a WeakSet from raw bullet texts. Empty entries are skipped.
func NewWeakSet(bullets ...string) WeakSet {
	set := make(WeakSet, len(bullets))
	for _, b := range bullets {
		norm := strings.ToLower(strings.TrimSpace(b))
		if norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

// Matches reports whether text fuzzy-matches any known-weak bullet:
// substring containment in either direction.
func (w WeakSet) Matches(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	for weak := range w {
		if strings.Contains(norm, weak) || strings.Contains(weak, norm) {
			return true
		}
	}
	return false
}

// Strength scores a bullet from 0 to 100. Lower means weaker.
func Strength(text string, weak WeakSet) int {
	score := BaseStrength
	norm := strings.ToLower(strings.TrimSpace(text))

	if weak.Matches(text) {
		score -= weakMatchPenalty
	}
	if utf8.RuneCountInString(text) < shortBulletLength {
		score -= shortPenalty
	}
	if !hasDigit(text) {
		score -= noDigitPenalty
	}
	for _, verb := range lexicon.StrengthVerbs {
		if strings.Contains(norm, verb) {
			score += strongVerbBonus
			break
		}
	}
	if strings.ContainsAny(text, "%$") {
		score += metricSymbolBonus
	}

	return max(minStrength, min(maxStrength, score))
}
