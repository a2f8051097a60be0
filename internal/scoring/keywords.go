package scoring

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/lexicon"
)

// keywordIndex holds the precomputed haystacks a required skill is matched against
type keywordIndex struct {
	skills         map[string]bool
	bulletText     string
	bulletNoSpaces string
}

func newKeywordIndex(skills []string, bullets []string) keywordIndex {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		set[strings.ToLower(strings.TrimSpace(s))] = true
	}
	text := strings.ToLower(strings.Join(bullets, " "))
	return keywordIndex{
		skills:         set,
		bulletText:     text,
		bulletNoSpaces: strings.ReplaceAll(text, " ", ""),
	}
}

// matches reports whether a required skill is covered by the resume. The skill
// set is checked first (including abbreviations), then the bullet text with
// widening strategies: exact substring, space-stripped substring, abbreviation
// table, all words present.
func (k keywordIndex) matches(skill string) bool {
	needle := strings.ToLower(strings.TrimSpace(skill))
	if needle == "" {
		return false
	}
	if k.skills[needle] {
		return true
	}
	aliases := lexicon.KeywordAliases[needle]
	for _, alias := range aliases {
		if k.skills[alias] {
			return true
		}
	}
	if k.bulletText == "" {
		return false
	}

	if strings.Contains(k.bulletText, needle) {
		return true
	}

	if compact := strings.ReplaceAll(needle, " ", ""); compact != needle &&
		strings.Contains(k.bulletNoSpaces, compact) {
		return true
	}

	for _, alias := range aliases {
		if strings.Contains(k.bulletText, alias) {
			return true
		}
	}

	words := strings.Fields(needle)
	if len(words) > 1 {
		for _, w := range words {
			if !strings.Contains(k.bulletText, w) {
				return false
			}
		}
		return true
	}

	return false
}

// matchKeywords splits required skills into matched and missing, preserving order.
func matchKeywords(required, skills, bullets []string) (matched, missing []string) {
	idx := newKeywordIndex(skills, bullets)
	seen := make(map[string]bool, len(required))
	for _, req := range required {
		key := strings.ToLower(strings.TrimSpace(req))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if idx.matches(req) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}
