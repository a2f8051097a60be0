package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ChainSettings describe a provider and the models to fail over between
type ChainSettings struct {
	Provider Provider
	APIKey   string
	// Models are tried in order; empty uses the provider defaults
	Models  []string
	BaseURL string
	Options ResilientOptions
}

// NewChain builds a ResilientClient for settings. OpenAI-compatible providers
// get one backend per model; Gemini gets a single backend serving its tiers.
func NewChain(ctx context.Context, settings ChainSettings, logger zerolog.Logger) (*ResilientClient, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("API key is required for provider %s", settings.Provider)
	}

	var backends []Backend
	switch settings.Provider {
	case ProviderGemini, "":
		cfg := DefaultGeminiConfig()
		if len(settings.Models) > 0 {
			cfg = cfg.WithModel(TierAdvanced, settings.Models[0])
		}
		client, err := NewGeminiClient(ctx, cfg, settings.APIKey)
		if err != nil {
			return nil, err
		}
		backends = append(backends, Backend{Name: "gemini", Client: client})

	case ProviderNVIDIA, ProviderOpenAI:
		models := settings.Models
		if len(models) == 0 {
			models = DefaultNVIDIAModels
		}
		for _, model := range models {
			cfg := NVIDIAConfig(model)
			cfg.Provider = settings.Provider
			if settings.BaseURL != "" {
				cfg.BaseURL = settings.BaseURL
			}
			client, err := NewOpenAIClient(cfg, settings.APIKey)
			if err != nil {
				return nil, err
			}
			backends = append(backends, Backend{Name: model, Client: client})
		}

	default:
		return nil, fmt.Errorf("unsupported llm provider %q", settings.Provider)
	}

	return NewResilientClient(backends, settings.Options, logger), nil
}
