// Package llm provides model configuration and the provider clients that sit
// behind one Client interface: Gemini, OpenAI-compatible chat endpoints, and
// a resilient wrapper that retries and fails over between them.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: job parsing, scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: bullet rewriting and improvement
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderNVIDIA is NVIDIA's OpenAI-compatible chat completions endpoint
	ProviderNVIDIA Provider = "nvidia"
	// ProviderOpenAI is any other OpenAI-compatible endpoint
	ProviderOpenAI Provider = "openai"
)

// Endpoint and model defaults
const (
	DefaultNVIDIABaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultTimeout       = 90 * time.Second
	DefaultTemperature   = 0.15
	DefaultMaxTokens     = 4096
)

// DefaultNVIDIAModels is the failover order used when several NVIDIA models are chained
var DefaultNVIDIAModels = []string{
	"moonshotai/kimi-k2.5",
	"stepfun-ai/step-3.5-flash",
}

// Config holds the model configuration for one provider
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout:     DefaultTimeout,
		Temperature: 0.1,
		MaxTokens:   DefaultMaxTokens,
	}
}

// NVIDIAConfig returns a configuration that serves every tier with model
func NVIDIAConfig(model string) *Config {
	return &Config{
		Provider: ProviderNVIDIA,
		Models: map[ModelTier]string{
			TierLite:     model,
			TierStandard: model,
			TierAdvanced: model,
		},
		BaseURL:     DefaultNVIDIABaseURL,
		Timeout:     DefaultTimeout,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ParseProvider maps a config or env value to a Provider
func ParseProvider(value string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(value))); p {
	case ProviderGemini, ProviderNVIDIA, ProviderOpenAI:
		return p, nil
	case "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", value)
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}
