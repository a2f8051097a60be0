// Package parsing turns job description text into a JobProfile, combining
// keyword detection with LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/prompts"
	"github.com/jonathan/resume-ats/internal/types"
)

// DefaultRoleTitle is used when neither the LLM nor the caller names the role
const DefaultRoleTitle = "Software Engineer"

// Analyzer extracts job profiles. The LLM client is optional; without it,
// or when the call fails, the profile comes from keyword detection alone.
type Analyzer struct {
	client llm.Client
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(client llm.Client, logger zerolog.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger}
}

// extractedProfile mirrors the LLM reply; seniority stays free text until validated
type extractedProfile struct {
	RoleTitle      string   `json:"role_title"`
	Company        string   `json:"company"`
	SeniorityLevel string   `json:"seniority_level"`
	YearsRequired  int      `json:"years_experience_required"`
	KeySkills      []string `json:"key_skills"`
	NiceToHave     []string `json:"nice_to_have"`
	FocusAreas     []string `json:"role_focus_areas"`
}

// Analyze extracts a JobProfile from job description text
func (a *Analyzer) Analyze(ctx context.Context, jobText string) (*types.JobProfile, error) {
	jobText = strings.TrimSpace(jobText)
	if jobText == "" {
		return nil, &ValidationError{Field: "job_text", Message: "job description is empty"}
	}

	extracted := &extractedProfile{}
	if a.client != nil {
		got, err := a.extract(ctx, jobText)
		switch {
		case err == nil:
			extracted = got
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			a.logger.Warn().Err(err).Msg("LLM job analysis failed, using keyword detection only")
		}
	}

	return merge(extracted, jobText), nil
}

func (a *Analyzer) extract(ctx context.Context, jobText string) (*extractedProfile, error) {
	prompt := buildExtractionPrompt(jobText)

	responseText, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Message: "LLM request failed", Cause: err}
	}
	return parseJSONResponse(responseText)
}

// buildExtractionPrompt constructs the prompt for structured extraction
func buildExtractionPrompt(jobText string) string {
	template := prompts.MustGet("parsing.json", "extract-job-profile")
	return prompts.Format(template, map[string]string{
		"JobText": jobText,
	})
}

// parseJSONResponse parses the LLM reply into an extractedProfile
func parseJSONResponse(jsonText string) (*extractedProfile, error) {
	var profile extractedProfile
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonText)), &profile); err != nil {
		return nil, newParseError("reply is not a JSON job profile", jsonText, err)
	}
	return &profile, nil
}

// merge applies keyword detection underneath the extracted values: the LLM
// wins where it answered, detection fills the gaps, and skills are the
// normalized union with LLM skills first.
func merge(extracted *extractedProfile, jobText string) *types.JobProfile {
	profile := &types.JobProfile{
		RoleTitle:     strings.TrimSpace(extracted.RoleTitle),
		Company:       strings.TrimSpace(extracted.Company),
		YearsRequired: extracted.YearsRequired,
		KeySkills:     NormalizeSkills(append(append([]string(nil), extracted.KeySkills...), ExtractSkills(jobText)...)),
		NiceToHave:    NormalizeSkills(extracted.NiceToHave),
		FocusAreas:    trimAll(extracted.FocusAreas),
	}

	if profile.RoleTitle == "" {
		profile.RoleTitle = DefaultRoleTitle
	}
	if level, err := types.ParseSeniorityLevel(extracted.SeniorityLevel); err == nil {
		profile.SeniorityLevel = level
	} else {
		profile.SeniorityLevel = DetectSeniority(jobText)
	}
	if profile.YearsRequired <= 0 {
		profile.YearsRequired = ExtractYears(jobText)
	}

	// a skill is either required or nice to have, never both
	required := make(map[string]bool, len(profile.KeySkills))
	for _, s := range profile.KeySkills {
		required[strings.ToLower(s)] = true
	}
	nice := profile.NiceToHave[:0]
	for _, s := range profile.NiceToHave {
		if !required[strings.ToLower(s)] {
			nice = append(nice, s)
		}
	}
	profile.NiceToHave = nice

	return profile
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GenericProfile is the profile used to optimize a resume for ATS parsing
// without a specific job
func GenericProfile() *types.JobProfile {
	return &types.JobProfile{
		RoleTitle:      DefaultRoleTitle,
		SeniorityLevel: types.SeniorityMid,
		YearsRequired:  DefaultYearsRequired,
		KeySkills:      []string{"programming", "software development", "problem solving"},
		FocusAreas:     []string{"backend", "frontend", "full-stack"},
	}
}
