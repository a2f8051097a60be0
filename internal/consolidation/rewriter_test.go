package consolidation

import (
	"context"
	"errors"
	"testing"

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

func TestLLMRewriter_Rewrite(t *testing.T) {
	client := &fakeClient{response: `["Cut costs by 20% with Terraform", "Shipped 3 Go services on AWS"]`}
	req := RewriteRequest{
		Bullets:  bullets("Wrote docs", "Fixed bugs"),
		Keywords: []string{"Terraform", "AWS"},
	}

	got, err := NewLLMRewriter(client).Rewrite(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cut costs by 20% with Terraform", "Shipped 3 Go services on AWS"}, got)

	assert.Equal(t, llm.TierAdvanced, client.lastTier)
	assert.Contains(t, client.lastPrompt, "- Wrote docs\n- Fixed bugs")
	assert.Contains(t, client.lastPrompt, "Terraform, AWS")
	assert.Contains(t, client.lastPrompt, "Return EXACTLY 2 bullets")
}

func TestLLMRewriter_ClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("503")}

	_, err := NewLLMRewriter(client).Rewrite(context.Background(), RewriteRequest{Bullets: []types.Bullet{types.NewBullet("x")}})
	var rewriteErr *RewriteError
	require.True(t, errors.As(err, &rewriteErr))
}

func TestParseBulletList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"bare array", `["a", "b"]`, []string{"a", "b"}, false},
		{"fenced array", "```json\n[\"a\"]\n```", []string{"a"}, false},
		{"improved_bullets object", `{"improved_bullets": ["a", "b"]}`, []string{"a", "b"}, false},
		{"bullets object", `{"bullets": ["c"]}`, []string{"c"}, false},
		{"prose", "Here are your bullets", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBulletList(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
