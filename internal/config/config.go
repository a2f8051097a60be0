// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume  string `json:"resume,omitempty"`  // Path to resume JSON
	Profile string `json:"profile,omitempty"` // Path to job profile JSON
	Job     string `json:"job,omitempty"`     // Path to job posting text file
	JobURL  string `json:"job_url,omitempty"` // URL to fetch job posting from
	Out     string `json:"out,omitempty"`     // Output path

	// Generation
	TargetScore   int  `json:"target_ats_score,omitempty"`
	MaxAttempts   int  `json:"max_attempts,omitempty"`
	TargetPages   int  `json:"target_pages,omitempty"`
	HybridScoring bool `json:"hybrid_scoring,omitempty"`

	// Behavior
	Provider    string   `json:"provider,omitempty"`     // LLM provider: gemini, nvidia, openai
	Models      []string `json:"models,omitempty"`       // Model failover order
	APIKey      string   `json:"api_key,omitempty"`      // LLM API key
	UseBrowser  bool     `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool     `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string   `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisAddr   string   `json:"redis_addr,omitempty"`   // Redis address for jobs and fetch cache
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging with flags.
func (c *Config) Validate() error {
	sources := 0
	for _, s := range []string{c.Profile, c.Job, c.JobURL} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("config error: 'profile', 'job' and 'job_url' are mutually exclusive")
	}

	if c.TargetScore < 0 || c.TargetScore > 100 {
		return fmt.Errorf("config error: 'target_ats_score' must be between 0 and 100")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.TargetPages < 0 || c.TargetPages > 2 {
		return fmt.Errorf("config error: 'target_pages' must be 0, 1 or 2")
	}

	for name, path := range map[string]string{"resume": c.Resume, "profile": c.Profile, "job": c.Job} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&result.Resume, defaults.Resume},
		{&result.Profile, defaults.Profile},
		{&result.Job, defaults.Job},
		{&result.JobURL, defaults.JobURL},
		{&result.Out, defaults.Out},
		{&result.Provider, defaults.Provider},
		{&result.APIKey, defaults.APIKey},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.RedisAddr, defaults.RedisAddr},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}

	if result.TargetScore == 0 {
		result.TargetScore = defaults.TargetScore
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.TargetPages == 0 {
		result.TargetPages = defaults.TargetPages
	}
	if len(result.Models) == 0 {
		result.Models = defaults.Models
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
