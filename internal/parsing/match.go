package parsing

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

var focusKeywords = map[string][]string{
	"backend":  {"api", "server", "backend", "microservice", "database", "sql"},
	"frontend": {"react", "angular", "vue", "ui", "ux", "frontend", "css", "html"},
	"devops":   {"docker", "kubernetes", "ci/cd", "aws", "terraform", "infrastructure"},
	"ml":       {"machine learning", "tensorflow", "pytorch", "model", "algorithm", "ai"},
	"security": {"security", "encryption", "auth", "oauth", "penetration", "vulnerability"},
}

// MatchScore estimates how well a resume fits a profile on a 0-100 scale:
// up to 40 for listed skills, 20 for years (one per role), 30 for roles that
// mention a required skill, and 10 for touching a focus area.
func MatchScore(profile *types.JobProfile, resume *types.Resume) float64 {
	if profile == nil || resume == nil {
		return 0
	}
	score := 0.0

	if resume.Skills != nil && len(profile.KeySkills) > 0 {
		have := make(map[string]bool)
		for _, s := range append(append([]string(nil), resume.Skills.LanguagesFrameworks...), resume.Skills.Tools...) {
			have[strings.ToLower(s)] = true
		}
		required := make(map[string]bool)
		for _, s := range profile.KeySkills {
			required[strings.ToLower(s)] = true
		}
		matched := 0
		for s := range required {
			if have[s] {
				matched++
			}
		}
		score += float64(matched) / float64(len(required)) * 40
	}

	years := len(resume.Experience)
	switch {
	case years >= profile.YearsRequired:
		score += 20
	case float64(years) >= float64(profile.YearsRequired)*0.7:
		score += 10
	}

	relevant := 0
	for _, exp := range resume.Experience {
		text := strings.ToLower(strings.Join(append(types.BulletTexts(exp.Bullets), exp.Role, exp.Company), " "))
		for _, s := range profile.KeySkills {
			if strings.Contains(text, strings.ToLower(s)) {
				relevant++
				break
			}
		}
	}
	score += float64(min(relevant*10, 30))

	if focusMatches(profile, resume) {
		score += 10
	}
	return min(score, 100)
}

func focusMatches(profile *types.JobProfile, resume *types.Resume) bool {
	if len(profile.FocusAreas) == 0 {
		return true
	}

	var parts []string
	for _, exp := range resume.Experience {
		parts = append(parts, types.BulletTexts(exp.Bullets)...)
	}
	text := strings.ToLower(strings.Join(parts, " "))

	for _, focus := range profile.FocusAreas {
		focus = strings.ToLower(focus)
		keywords, ok := focusKeywords[focus]
		if !ok {
			keywords = []string{focus}
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
