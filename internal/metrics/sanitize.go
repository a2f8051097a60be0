package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	boldPattern            = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern          = regexp.MustCompile(`\*(.+?)\*`)
	longParentheticalRegex = regexp.MustCompile(`\s*\([^)]{20,}\)`)
	whitespacePattern      = regexp.MustCompile(`\s+`)
)

// dedupePrefixLen is how many leading characters identify a duplicate bullet
const dedupePrefixLen = 50

// Sanitize cleans LLM-produced bullet text: markdown emphasis is unwrapped,
// long parenthetical asides are dropped and whitespace is collapsed.
func Sanitize(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = longParentheticalRegex.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return strings.TrimLeft(text, "-•* ")
}

// Dedupe drops bullets whose first 50 lowercased characters repeat an earlier
// bullet, and drops empty bullets. Order is preserved.
func Dedupe(bullets []string) []string {
	seen := make(map[string]bool, len(bullets))
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		key := dedupeKey(b)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}

func dedupeKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	if utf8.RuneCountInString(key) > dedupePrefixLen {
		key = string([]rune(key)[:dedupePrefixLen])
	}
	return key
}
