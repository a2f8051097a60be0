// Package scoring provides the rule-based ATS scorer, the hybrid score blender
// and the LLM-backed scorer it blends against.
package scoring

import (
	"github.com/jonathan/resume-ats/internal/metrics"
	"github.com/jonathan/resume-ats/internal/types"
)

// Component weights of the overall score, in percent
const (
	keywordWeight        = 40
	quantificationWeight = 30
	starWeight           = 15
	verbWeight           = 5
	structureWeight      = 5
	sectionWeight        = 5
)

// Baselines used when there is nothing to measure
const (
	noRequirementsKeywordScore = 90
	emptyQuantificationScore   = 70
	emptyStarScore             = 75
	emptyVerbScore             = 50
)

const (
	maxMissingKeywords = 10
	maxWeakBullets     = 5
	weakBulletMinWords = 5
	totalSections      = 6
)

// RuleScorer is the deterministic ATS scorer. It holds no state and is safe
// for concurrent use.
type RuleScorer struct{}

// NewRuleScorer creates a rule-based scorer
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

// Score evaluates the resume against the profile's key skills.
// A nil profile is scored as having no requirements.
func (s *RuleScorer) Score(resume *types.Resume, profile *types.JobProfile) types.ScoreRecord {
	if resume == nil {
		resume = &types.Resume{}
	}
	var required []string
	if profile != nil {
		required = profile.KeySkills
	}

	bullets := resume.ScoringTexts()
	skills := skillList(resume.Skills)
	matched, missing := matchKeywords(required, skills, bullets)

	keyword := KeywordScore(len(matched), len(matched)+len(missing))
	quant := QuantificationScore(bullets)
	star := StarScore(bullets)
	verbs := VerbScore(bullets)
	structure := StructureScore(resume)
	sections := SectionScore(resume)

	overall := Overall(keyword, quant, star, verbs, structure, sections)
	weak := WeakBullets(bullets)

	return types.ScoreRecord{
		Source:              types.SourceRule,
		Overall:             overall,
		KeywordMatch:        keyword,
		StarCompliance:      star,
		Quantification:      quant,
		ActionVerbStrength:  verbs,
		FormatCompliance:    structure,
		SectionCompleteness: sections,
		Shortcomings:        shortcomings(keyword, quant, star, structure, len(missing)),
		Suggestions:         suggestions(missing, weak, profile),
		MissingKeywords:     truncate(missing, maxMissingKeywords),
		WeakBullets:         truncate(weak, maxWeakBullets),
	}
}

// Overall combines the component scores into the weighted overall score,
// truncated to an integer in [0,100]. Integer arithmetic keeps the
// truncation exact.
func Overall(keyword, quant, star, verbs, structure, sections int) int {
	total := keyword*keywordWeight +
		quant*quantificationWeight +
		star*starWeight +
		verbs*verbWeight +
		structure*structureWeight +
		sections*sectionWeight
	return clampScore(total / 100)
}

// KeywordScore maps matched/required to 40 + ratio*60. No requirements scores 90.
func KeywordScore(matched, required int) int {
	if required == 0 {
		return noRequirementsKeywordScore
	}
	ratio := float64(matched) / float64(required)
	return min(100, int(40+ratio*60))
}

// QuantificationScore maps the share of bullets with a metric to [70,100]
func QuantificationScore(bullets []string) int {
	if len(bullets) == 0 {
		return emptyQuantificationScore
	}
	r := ratio(bullets, metrics.HasMetric)
	return min(100, max(70, int(70+r*30)))
}

// StarScore maps the share of bullets starting with a strong verb to [75,100]
func StarScore(bullets []string) int {
	if len(bullets) == 0 {
		return emptyStarScore
	}
	r := ratio(bullets, metrics.StartsWithStrongVerb)
	return min(100, max(75, int(75+r*25)))
}

// VerbScore maps the share of bullets containing a strong verb to [50,100]
func VerbScore(bullets []string) int {
	if len(bullets) == 0 {
		return emptyVerbScore
	}
	r := ratio(bullets, metrics.ContainsStrongVerb)
	return min(100, int(50+r*50))
}

// StructureScore rewards the presence of the core sections and contact details
func StructureScore(resume *types.Resume) int {
	score := 100
	if resume.Basics == nil {
		score -= 20
	}
	if len(resume.Experience) == 0 {
		score -= 25
	}
	if len(resume.Education) == 0 {
		score -= 10
	}
	if resume.Skills.Empty() {
		score -= 10
	}

	if len(resume.Experience) >= 2 {
		score += 5
	}
	if resume.Basics != nil && resume.Basics.Email != "" {
		score += 5
	}
	if resume.Basics != nil && resume.Basics.Phone != "" {
		score += 5
	}
	return min(100, max(50, score))
}

// SectionScore maps the number of non-empty sections out of six to [50,100]
func SectionScore(resume *types.Resume) int {
	present := 0
	for _, ok := range []bool{
		resume.Basics != nil,
		len(resume.Experience) > 0,
		len(resume.Education) > 0,
		!resume.Skills.Empty(),
		len(resume.Projects) > 0,
		len(resume.Achievements) > 0,
	} {
		if ok {
			present++
		}
	}
	return int(50 + float64(present)/totalSections*50)
}

// WeakBullets returns bullets with a passive phrase, or short bullets with no metric
func WeakBullets(bullets []string) []string {
	var weak []string
	for _, b := range bullets {
		f := metrics.Extract(b, nil)
		short := metrics.WordCount(b) < weakBulletMinWords
		if metrics.HasWeakIndicator(b) || (short && !f.HasMetric) {
			weak = append(weak, b)
		}
	}
	return weak
}

func ratio(bullets []string, pred func(string) bool) float64 {
	hits := 0
	for _, b := range bullets {
		if pred(b) {
			hits++
		}
	}
	return float64(hits) / float64(len(bullets))
}

func skillList(s *types.Skills) []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.LanguagesFrameworks)+len(s.Tools))
	out = append(out, s.LanguagesFrameworks...)
	return append(out, s.Tools...)
}

func clampScore(v int) int {
	return max(0, min(100, v))
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
