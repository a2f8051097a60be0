package skills

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/types"
)

// MergeKeywords returns a copy of s with every keyword it does not already
// hold appended. Filler keywords are skipped. Languages and keywords that
// mention a framework hint go to LanguagesFrameworks, everything else to
// Tools. The second return value lists what was added.
func MergeKeywords(s *types.Skills, keywords []string) (*types.Skills, []string) {
	out := &types.Skills{}
	if s != nil {
		out.LanguagesFrameworks = append([]string(nil), s.LanguagesFrameworks...)
		out.Tools = append([]string(nil), s.Tools...)
	}

	existing := make(map[string]bool)
	for _, skill := range out.LanguagesFrameworks {
		existing[normalize(skill)] = true
	}
	for _, skill := range out.Tools {
		existing[normalize(skill)] = true
	}

	var added []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		norm := normalize(kw)
		if norm == "" || existing[norm] || lexicon.FillerSkills[norm] {
			continue
		}
		existing[norm] = true
		added = append(added, kw)

		if IsLanguage(norm) {
			out.LanguagesFrameworks = append(out.LanguagesFrameworks, kw)
		} else {
			out.Tools = append(out.Tools, kw)
		}
	}
	return out, added
}

// IsLanguage reports whether a keyword belongs with languages and frameworks
func IsLanguage(keyword string) bool {
	norm := normalize(keyword)
	if lexicon.LanguageSkills[norm] {
		return true
	}
	for _, hint := range lexicon.FrameworkHints {
		if strings.Contains(norm, hint) {
			return true
		}
	}
	return false
}
