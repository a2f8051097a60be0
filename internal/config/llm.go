package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-ats/internal/llm"
)

// LLMFromEnv reads the provider chain settings from the environment.
//
//	LLM_PROVIDER    gemini (default), nvidia or openai
//	GEMINI_API_KEY  key for gemini
//	NVIDIA_API_KEY  key for nvidia and openai
//	LLM_API_KEY     overrides the provider key
//	LLM_MODELS      comma-separated failover order
//	LLM_BASE_URL    OpenAI-compatible endpoint
func LLMFromEnv() (llm.ChainSettings, error) {
	provider, err := llm.ParseProvider(os.Getenv("LLM_PROVIDER"))
	if err != nil {
		return llm.ChainSettings{}, fmt.Errorf("invalid LLM_PROVIDER: %w", err)
	}

	settings := llm.ChainSettings{
		Provider: provider,
		APIKey:   os.Getenv("LLM_API_KEY"),
		Models:   splitList(os.Getenv("LLM_MODELS")),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}
	if settings.APIKey == "" {
		if provider == llm.ProviderGemini {
			settings.APIKey = os.Getenv("GEMINI_API_KEY")
		} else {
			settings.APIKey = os.Getenv("NVIDIA_API_KEY")
		}
	}
	return settings, nil
}

// ApplyLLM overlays non-empty file settings onto env settings
func (c *Config) ApplyLLM(settings llm.ChainSettings) (llm.ChainSettings, error) {
	if c.Provider != "" {
		provider, err := llm.ParseProvider(c.Provider)
		if err != nil {
			return settings, fmt.Errorf("config error: %w", err)
		}
		settings.Provider = provider
	}
	if c.APIKey != "" {
		settings.APIKey = c.APIKey
	}
	if len(c.Models) > 0 {
		settings.Models = c.Models
	}
	return settings, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
