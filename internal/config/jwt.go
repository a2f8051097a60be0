package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTIssuer is the iss claim when JWT_ISSUER is unset
const DefaultJWTIssuer = "resume-ats"

// JWTConfig is the API's token settings. Tokens are HS256 signed with Secret.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	// Issuer is stamped into issued tokens and required on incoming ones
	Issuer string
}

// Expiration is the lifetime of an issued token
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// NewJWTConfig reads JWT_SECRET (required), JWT_EXPIRATION_HOURS (default
// 24) and JWT_ISSUER.
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: 24,
		Issuer:          os.Getenv("JWT_ISSUER"),
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultJWTIssuer
	}

	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", v, err)
		}
		if hours < 1 {
			return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours)
		}
		cfg.ExpirationHours = hours
	}
	return cfg, nil
}

// OptionalJWTConfig is NewJWTConfig, except that an unset JWT_SECRET returns
// nil and no error. The API then runs unauthenticated.
func OptionalJWTConfig() (*JWTConfig, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}
