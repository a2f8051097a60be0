package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/types"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastTier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }

func (f *fakeClient) Close() error { return nil }

const sampleJob = "We need a Senior Backend Engineer with 5+ years of experience in Go, Kubernetes and Kafka. Terraform is a plus."

func TestAnalyze_MergesLLMAndKeywords(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"role_title": "Senior Backend Engineer",
		"company": "Acme",
		"seniority_level": "Senior",
		"years_experience_required": 5,
		"key_skills": ["golang", "Kubernetes", "postgres"],
		"nice_to_have": ["Terraform", "Helm"],
		"role_focus_areas": [" distributed systems ", ""]
	}` + "\n```"}

	profile, err := NewAnalyzer(client, zerolog.Nop()).Analyze(context.Background(), sampleJob)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", profile.RoleTitle)
	assert.Equal(t, "Acme", profile.Company)
	assert.Equal(t, types.SenioritySenior, profile.SeniorityLevel)
	assert.Equal(t, 5, profile.YearsRequired)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Kafka", "Terraform"}, profile.KeySkills)
	assert.Equal(t, []string{"Helm"}, profile.NiceToHave, "required skills are not repeated as nice to have")
	assert.Equal(t, []string{"distributed systems"}, profile.FocusAreas)
	require.NoError(t, profile.Validate())

	assert.Equal(t, llm.TierStandard, client.lastTier)
	assert.Contains(t, client.lastPrompt, sampleJob)
}

func TestAnalyze_FallsBackToKeywordDetection(t *testing.T) {
	for name, client := range map[string]llm.Client{
		"client error": &fakeClient{err: errors.New("503")},
		"bad json":     &fakeClient{response: "I cannot help with that"},
		"no client":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			profile, err := NewAnalyzer(client, zerolog.Nop()).Analyze(context.Background(), sampleJob)
			require.NoError(t, err)

			assert.Equal(t, DefaultRoleTitle, profile.RoleTitle)
			assert.Equal(t, types.SenioritySenior, profile.SeniorityLevel)
			assert.Equal(t, 5, profile.YearsRequired)
			assert.Equal(t, []string{"Go", "Kubernetes", "Kafka", "Terraform"}, profile.KeySkills)
			assert.Empty(t, profile.NiceToHave)
		})
	}
}

func TestAnalyze_UnknownSeniorityIsDetected(t *testing.T) {
	client := &fakeClient{response: `{"role_title": "Engineer", "seniority_level": "guru"}`}

	profile, err := NewAnalyzer(client, zerolog.Nop()).Analyze(context.Background(), "Junior developer wanted")
	require.NoError(t, err)
	assert.Equal(t, types.SeniorityEntry, profile.SeniorityLevel)
	assert.Equal(t, DefaultYearsRequired, profile.YearsRequired)
}

func TestAnalyze_EmptyText(t *testing.T) {
	_, err := NewAnalyzer(nil, zerolog.Nop()).Analyze(context.Background(), "   ")
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "job_text", validationErr.Field)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(&fakeClient{err: context.Canceled}, zerolog.Nop()).Analyze(ctx, sampleJob)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseJSONResponse_Invalid(t *testing.T) {
	_, err := parseJSONResponse(`{invalid json}`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Error(t, parseErr.Unwrap())
	assert.Equal(t, "{invalid json}", parseErr.Response)

	long := strings.Repeat("x", 500)
	_, err = parseJSONResponse(long)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, strings.Repeat("x", 120)+"...", parseErr.Response)
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("Build things in Rust")
	assert.Contains(t, prompt, "Build things in Rust")
	assert.Contains(t, prompt, "years_experience_required")
	assert.NotContains(t, prompt, "{{.JobText}}")
}

func TestGenericProfile(t *testing.T) {
	profile := GenericProfile()
	require.NoError(t, profile.Validate())
	assert.Equal(t, types.SeniorityMid, profile.SeniorityLevel)
	assert.Len(t, profile.KeySkills, 3)
}
