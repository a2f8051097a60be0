// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Default generation settings
const (
	DefaultTargetScore = 92
	DefaultMaxAttempts = 10
)

// GenerationConfig controls the regeneration loop. Zero TargetScore and
// MaxAttempts mean "use the default", so a target of 0 cannot be requested;
// validate the config after WithDefaults.
type GenerationConfig struct {
	TargetScore   int  `json:"target_ats_score" validate:"gte=1,lte=100"`
	MaxAttempts   int  `json:"max_attempts" validate:"gte=1,lte=50"`
	HybridScoring bool `json:"hybrid_scoring"`
	TargetPages   int  `json:"target_pages,omitempty" validate:"gte=0,lte=2"`
}

// WithDefaults fills zero values with the package defaults
func (c GenerationConfig) WithDefaults() GenerationConfig {
	if c.TargetScore == 0 {
		c.TargetScore = DefaultTargetScore
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Validate checks the config's bounds. Call it on the result of WithDefaults.
func (c GenerationConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
