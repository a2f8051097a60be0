package ratelimit

import (
	"strings"
)

// unlimited holds the "METHOD /path" pairs that are never limited
var unlimited = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint returns the config governing method and path, or nil when the
// default limit applies. An exact path wins. A config path ending in "/"
// covers everything below it, so "/jobs/" covers "/jobs/{id}/stream", and the
// longest such prefix wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) &&
			(prefix == nil || len(cfg.Path) > len(prefix.Path)) {
			prefix = cfg
		}
	}
	return prefix
}

// bucketKey names the bucket a request draws from. Requests matched by a
// prefix share it, so every /runs/{id} read counts against one bucket.
func bucketKey(clientID, path, method string, matched *EndpointConfig) string {
	if matched != nil && matched.Path != "" {
		path = matched.Path
	}
	return clientID + ":" + method + " " + path
}
