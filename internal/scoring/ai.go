package scoring

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/prompts"
	"github.com/jonathan/resume-ats/internal/types"
)

// LLMScorer asks a language model to score the resume
type LLMScorer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMScorer creates an AI scorer backed by client
func NewLLMScorer(client llm.Client) *LLMScorer {
	return &LLMScorer{client: client, tier: llm.TierStandard}
}

// aiScoreResponse is the JSON shape the scoring prompt asks for
type aiScoreResponse struct {
	Overall             int      `json:"overall"`
	KeywordMatch        int      `json:"keyword_match"`
	StarCompliance      int      `json:"star_compliance"`
	Quantification      int      `json:"quantification"`
	ActionVerbStrength  int      `json:"action_verb_strength"`
	FormatCompliance    int      `json:"format_compliance"`
	SectionCompleteness int      `json:"section_completeness"`
	Suggestions         []string `json:"suggestions"`
	Shortcomings        []string `json:"shortcomings"`
	WeakBullets         []string `json:"weak_bullets"`
}

// Score implements AIScorer
func (s *LLMScorer) Score(ctx context.Context, resume *types.Resume, profile *types.JobProfile) (types.ScoreRecord, error) {
	if resume == nil {
		return types.ScoreRecord{}, &InputError{Message: "resume is required", Field: "resume"}
	}

	prompt, err := buildScoringPrompt(resume, profile)
	if err != nil {
		return types.ScoreRecord{}, err
	}

	text, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return types.ScoreRecord{}, &AIScoreError{Message: "failed to generate score", Cause: err}
	}

	return parseAIScore(text)
}

func buildScoringPrompt(resume *types.Resume, profile *types.JobProfile) (string, error) {
	template, err := prompts.Get("scoring.json", "ats-score")
	if err != nil {
		return "", &AIScoreError{Message: "failed to load scoring prompt", Cause: err}
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", &AIScoreError{Message: "failed to marshal resume", Cause: err}
	}

	data := map[string]string{"Resume": string(resumeJSON)}
	if profile != nil {
		data["RoleTitle"] = profile.RoleTitle
		data["Seniority"] = string(profile.SeniorityLevel)
		data["KeySkills"] = strings.Join(profile.KeySkills, ", ")
		data["NiceToHave"] = strings.Join(profile.NiceToHave, ", ")
		data["FocusAreas"] = strings.Join(profile.FocusAreas, ", ")
	}
	return prompts.Format(template, data), nil
}

// parseAIScore decodes a model response into a record with every component clamped to [0,100]
func parseAIScore(text string) (types.ScoreRecord, error) {
	var resp aiScoreResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &resp); err != nil {
		return types.ScoreRecord{}, &AIScoreError{Message: "failed to parse score JSON", Cause: err}
	}

	return types.ScoreRecord{
		Source:              types.SourceAI,
		Overall:             clampScore(resp.Overall),
		KeywordMatch:        clampScore(resp.KeywordMatch),
		StarCompliance:      clampScore(resp.StarCompliance),
		Quantification:      clampScore(resp.Quantification),
		ActionVerbStrength:  clampScore(resp.ActionVerbStrength),
		FormatCompliance:    clampScore(resp.FormatCompliance),
		SectionCompleteness: clampScore(resp.SectionCompleteness),
		Suggestions:         truncate(resp.Suggestions, maxSuggestions),
		Shortcomings:        truncate(resp.Shortcomings, maxSuggestions),
		WeakBullets:         truncate(resp.WeakBullets, maxWeakBullets),
	}, nil
}
