package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds the HTTP server settings read from the environment
type ServerConfig struct {
	Port            int
	Environment     string
	AllowedOrigins  []string
	RedisAddr       string
	RedisPassword   string
	DatabaseURL     string
	JobTimeout      time.Duration
	ShutdownTimeout time.Duration
}

// Development reports whether the server runs with development defaults
func (c ServerConfig) Development() bool {
	return c.Environment == "" || c.Environment == "development"
}

// ServerFromEnv reads PORT, APP_ENV, CORS_ORIGINS, REDIS_ADDR,
// REDIS_PASSWORD, DATABASE_URL, JOB_TIMEOUT and SHUTDOWN_TIMEOUT
func ServerFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:            8080,
		Environment:     strings.ToLower(os.Getenv("APP_ENV")),
		AllowedOrigins:  splitList(os.Getenv("CORS_ORIGINS")),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JobTimeout:      10 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = port
	}

	for name, dst := range map[string]*time.Duration{
		"JOB_TIMEOUT":      &cfg.JobTimeout,
		"SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid %s: %q", name, v)
		}
		*dst = d
	}

	return cfg, nil
}
