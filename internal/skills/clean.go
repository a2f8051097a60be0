// Package skills tidies the skills section of a resume: deduplication,
// filler removal, redundant variants, capitalization, and merging of job
// keywords.
package skills

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/types"
)

// Clean returns a cleaned copy of s. Entries are deduplicated
// case-insensitively across both containers (first occurrence wins, languages
// before tools), then filler, redundant variants and "one of" placeholders are
// dropped, and the survivors are re-spelled. Skills whose lowercased form is in
// preserve are never dropped.
func Clean(s *types.Skills, preserve []string) *types.Skills {
	if s == nil {
		return nil
	}

	keep := make(map[string]bool, len(preserve))
	for _, p := range preserve {
		keep[normalize(p)] = true
	}

	present := make(map[string]bool)
	for _, skill := range append(append([]string(nil), s.LanguagesFrameworks...), s.Tools...) {
		present[normalize(skill)] = true
	}

	seen := make(map[string]bool)
	clean := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, skill := range list {
			norm := normalize(skill)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			if !keep[norm] && removable(norm, present) {
				continue
			}
			out = append(out, Canonical(skill))
		}
		return out
	}

	return &types.Skills{
		LanguagesFrameworks: clean(s.LanguagesFrameworks),
		Tools:               clean(s.Tools),
	}
}

func removable(norm string, present map[string]bool) bool {
	if lexicon.FillerSkills[norm] {
		return true
	}
	for parent, variants := range lexicon.SkillRedundancies {
		if !present[parent] {
			continue
		}
		for _, v := range variants {
			if norm == v {
				return true
			}
		}
	}
	return strings.Contains(norm, "one of")
}

// Canonical re-spells a skill: "/" separators become ", ", known skills take
// their conventional spelling, lowercase unknowns are title-cased, and mixed
// case input is kept as written.
func Canonical(skill string) string {
	result := strings.TrimSpace(strings.ReplaceAll(skill, "/", ", "))
	if known, ok := lexicon.SkillCapitalization[strings.ToLower(result)]; ok {
		return known
	}
	if result != strings.ToLower(result) {
		return result
	}
	return titleCase(result)
}

// titleCase upper-cases every letter that does not follow another letter
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
