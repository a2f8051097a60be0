package scoring

import (
	"fmt"

	"github.com/jonathan/resume-ats/internal/types"
)

// Blending thresholds
const (
	closeOverallDelta       = 10
	closeComponentDelta     = 15
	conservativeAICeiling   = 85
	confidentRuleFloor      = 90
	boostedScoreCeiling     = 95
	maxRetryBoost           = 5
	retryBoostStep          = 2
	componentOverallFactor  = 0.9
	maxImprovementPotential = 15
	maxPotentialPenalty     = 5
	maxBlendedItems         = 5
	blendedSuggestionPool   = 4
)

// BlendOverall picks the final overall score from an AI and a rule score.
// Rules apply in order:
//  1. the two are within 10 points: the average, rounded half up
//  2. AI under 85 with rule at 90 or more: the rule score plus a retry boost, capped at 95
//  3. otherwise the AI score, including when the rule score is far below it
func BlendOverall(ai, rule, retry int) int {
	if abs(ai-rule) < closeOverallDelta {
		return roundedAverage(ai, rule)
	}
	if ai < conservativeAICeiling && rule >= confidentRuleFloor {
		boost := min(maxRetryBoost, retry*retryBoostStep)
		return min(boostedScoreCeiling, rule+boost)
	}
	// rule more than 15 under AI also lands here
	return ai
}

// blendComponent averages close components. Otherwise the lower component is
// lifted toward 90% of the final overall.
func blendComponent(ai, rule, final int) int {
	if abs(ai-rule) < closeComponentDelta {
		return roundedAverage(ai, rule)
	}
	lower := min(ai, rule)
	return max(lower, int(float64(final)*componentOverallFactor))
}

// ImprovementPotential estimates how many points another attempt could gain, in [0,15]
func ImprovementPotential(final int) int {
	gap := 100 - final
	potential := gap - min(maxPotentialPenalty, gap/2)
	return max(0, min(maxImprovementPotential, potential))
}

// Blend merges an AI record and a rule record into a hybrid record.
// Missing keywords always come from the rule record.
func Blend(ai, rule types.ScoreRecord, retry int) types.ScoreRecord {
	final := BlendOverall(ai.Overall, rule.Overall, retry)
	potential := ImprovementPotential(final)

	weak := ai.WeakBullets
	if len(weak) == 0 {
		weak = rule.WeakBullets
	}

	return types.ScoreRecord{
		Source:              types.SourceHybrid,
		Overall:             final,
		KeywordMatch:        blendComponent(ai.KeywordMatch, rule.KeywordMatch, final),
		StarCompliance:      blendComponent(ai.StarCompliance, rule.StarCompliance, final),
		Quantification:      blendComponent(ai.Quantification, rule.Quantification, final),
		ActionVerbStrength:  blendComponent(ai.ActionVerbStrength, rule.ActionVerbStrength, final),
		FormatCompliance:    blendComponent(ai.FormatCompliance, rule.FormatCompliance, final),
		SectionCompleteness: blendComponent(ai.SectionCompleteness, rule.SectionCompleteness, final),
		Suggestions:         blendSuggestions(ai.Suggestions, rule.Suggestions, potential),
		Shortcomings:        union(maxBlendedItems, ai.Shortcomings, rule.Shortcomings),
		MissingKeywords:     append([]string(nil), rule.MissingKeywords...),
		WeakBullets:         append([]string(nil), weak...),
	}
}

func potentialLine(potential int) string {
	switch {
	case potential > 10:
		return fmt.Sprintf("Great potential for improvement (+%d points possible!)", potential)
	case potential > 5:
		return fmt.Sprintf("Moderate improvement opportunity (+%d points)", potential)
	default:
		return "Already near-optimal. Minor tweaks only."
	}
}

func blendSuggestions(ai, rule []string, potential int) []string {
	pool := make([]string, 0, len(ai)+len(rule))
	pool = append(pool, ai...)
	pool = append(pool, rule...)
	return union(maxBlendedItems, []string{potentialLine(potential)}, truncate(pool, blendedSuggestionPool))
}

// union concatenates lists dropping exact duplicates and empties, keeping at most n items
func union(n int, lists ...[]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, n)
	for _, list := range lists {
		for _, item := range list {
			if item == "" || seen[item] {
				continue
			}
			if len(out) == n {
				return out
			}
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

// roundedAverage is the mean of two non-negative ints, rounded half up
func roundedAverage(a, b int) int {
	return (a + b + 1) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
