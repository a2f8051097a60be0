package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/llm"
)

func setLLMEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{"LLM_PROVIDER", "LLM_API_KEY", "GEMINI_API_KEY", "NVIDIA_API_KEY", "LLM_MODELS", "LLM_BASE_URL"} {
		t.Setenv(key, env[key])
	}
}

func TestLLMFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want llm.ChainSettings
	}{
		{
			name: "gemini default",
			env:  map[string]string{"GEMINI_API_KEY": "g-key", "NVIDIA_API_KEY": "n-key"},
			want: llm.ChainSettings{Provider: llm.ProviderGemini, APIKey: "g-key"},
		},
		{
			name: "nvidia with models",
			env: map[string]string{
				"LLM_PROVIDER":   "NVIDIA",
				"NVIDIA_API_KEY": "n-key",
				"LLM_MODELS":     "moonshotai/kimi-k2.5, stepfun-ai/step-3.5-flash,",
			},
			want: llm.ChainSettings{
				Provider: llm.ProviderNVIDIA,
				APIKey:   "n-key",
				Models:   []string{"moonshotai/kimi-k2.5", "stepfun-ai/step-3.5-flash"},
			},
		},
		{
			name: "explicit key and base url",
			env: map[string]string{
				"LLM_PROVIDER":   "openai",
				"LLM_API_KEY":    "override",
				"NVIDIA_API_KEY": "n-key",
				"LLM_BASE_URL":   "http://localhost:8000/v1",
			},
			want: llm.ChainSettings{Provider: llm.ProviderOpenAI, APIKey: "override", BaseURL: "http://localhost:8000/v1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLLMEnv(t, tt.env)
			got, err := LLMFromEnv()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLLMFromEnv_UnknownProvider(t *testing.T) {
	setLLMEnv(t, map[string]string{"LLM_PROVIDER": "mystery"})
	_, err := LLMFromEnv()
	assert.ErrorContains(t, err, "LLM_PROVIDER")
}

func TestApplyLLM(t *testing.T) {
	base := llm.ChainSettings{Provider: llm.ProviderGemini, APIKey: "env-key"}

	cfg := &Config{Provider: "nvidia", Models: []string{"m1"}}
	got, err := cfg.ApplyLLM(base)
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderNVIDIA, got.Provider)
	assert.Equal(t, "env-key", got.APIKey)
	assert.Equal(t, []string{"m1"}, got.Models)

	_, err = (&Config{Provider: "bogus"}).ApplyLLM(base)
	assert.Error(t, err)
}
