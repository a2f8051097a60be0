package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one route. A Path ending in "/" covers
// every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // bucket size, Limit when zero
}

// LoadConfig reads the limiter settings from the environment:
//
//	RATE_LIMIT_ENABLED           default true
//	RATE_LIMIT_DEFAULT_LIMIT     default 1000 requests
//	RATE_LIMIT_DEFAULT_WINDOW    default 1m
//	RATE_LIMIT_CLEANUP_INTERVAL  default 5m
//	RATE_LIMIT_WHITELIST         comma-separated client IPs
//	RATE_LIMIT_BLACKLIST         comma-separated client IPs
//	RATE_LIMIT_ENDPOINTS         overrides such as "POST /tailor=5/1h,GET /runs/=30/1m"
//
// Unparseable values fall back to their defaults.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	endpoints := DefaultEndpointConfigs()
	for _, entry := range splitList(os.Getenv("RATE_LIMIT_ENDPOINTS")) {
		override, err := parseEndpoint(entry)
		if err != nil {
			continue
		}
		endpoints = withEndpoint(endpoints, override)
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       ipSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the built-in per-route limits
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// regeneration runs the full LLM loop
		{Path: "/tailor", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// scoring and consolidation may call the LLM
		{Path: "/score", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/consolidate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// job polling and run history, one bucket per route
		{Path: "/jobs/", Method: "GET", Limit: 600, Window: time.Minute, Burst: 60},
		{Path: "/runs/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// everything else takes the default limit; GET /health is unlimited
	}
}

// parseEndpoint parses "METHOD /path=LIMIT/WINDOW", e.g. "POST /tailor=5/1h"
func parseEndpoint(entry string) (EndpointConfig, error) {
	route, rate, ok := strings.Cut(entry, "=")
	if !ok {
		return EndpointConfig{}, fmt.Errorf("endpoint %q: missing '='", entry)
	}
	method, path, ok := strings.Cut(strings.TrimSpace(route), " ")
	path = strings.TrimSpace(path)
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return EndpointConfig{}, fmt.Errorf("endpoint %q: route must be \"METHOD /path\"", entry)
	}
	limitStr, windowStr, ok := strings.Cut(strings.TrimSpace(rate), "/")
	if !ok {
		return EndpointConfig{}, fmt.Errorf("endpoint %q: rate must be LIMIT/WINDOW", entry)
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return EndpointConfig{}, fmt.Errorf("endpoint %q: bad limit %q", entry, limitStr)
	}
	window, err := time.ParseDuration(windowStr)
	if err != nil || window <= 0 {
		return EndpointConfig{}, fmt.Errorf("endpoint %q: bad window %q", entry, windowStr)
	}
	return EndpointConfig{Path: path, Method: strings.ToUpper(method), Limit: limit, Window: window}, nil
}

// withEndpoint replaces the config for the same route, or appends it
func withEndpoint(configs []EndpointConfig, cfg EndpointConfig) []EndpointConfig {
	for i := range configs {
		if configs[i].Method == cfg.Method && configs[i].Path == cfg.Path {
			configs[i] = cfg
			return configs
		}
	}
	return append(configs, cfg)
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range splitList(list) {
		set[ip] = true
	}
	return set
}
