package consolidation

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/prompts"
)

// LLMRewriter polishes weak bullets with a language model
type LLMRewriter struct {
	client llm.Client
}

// NewLLMRewriter creates a rewriter backed by client
func NewLLMRewriter(client llm.Client) *LLMRewriter {
	return &LLMRewriter{client: client}
}

// Rewrite implements Rewriter
func (w *LLMRewriter) Rewrite(ctx context.Context, req RewriteRequest) ([]string, error) {
	template, err := prompts.Get("rewriting.json", "polish-bullets")
	if err != nil {
		return nil, &RewriteError{Message: "failed to load polish prompt", Cause: err}
	}

	lines := make([]string, len(req.Bullets))
	for i, b := range req.Bullets {
		lines[i] = "- " + b.Text
	}
	prompt := prompts.Format(template, map[string]string{
		"Bullets":  strings.Join(lines, "\n"),
		"Keywords": strings.Join(req.Keywords, ", "),
		"Count":    strconv.Itoa(len(req.Bullets)),
	})

	// Use TierAdvanced for rewriting (requires nuance)
	text, err := w.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &RewriteError{Message: "failed to generate polished bullets", Cause: err}
	}

	return parseBulletList(text)
}

// parseBulletList accepts a bare JSON array or an object wrapping it
func parseBulletList(text string) ([]string, error) {
	cleaned := llm.CleanJSONBlock(text)

	var list []string
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		ImprovedBullets []string `json:"improved_bullets"`
		Bullets         []string `json:"bullets"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
		return nil, &RewriteError{Message: "response is not a JSON bullet list", Cause: err}
	}
	if len(wrapped.ImprovedBullets) > 0 {
		return wrapped.ImprovedBullets, nil
	}
	return wrapped.Bullets, nil
}
