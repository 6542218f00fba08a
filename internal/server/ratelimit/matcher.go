package ratelimit

import "strings"

// MatchEndpoint finds the endpoint config for a request path and
// method. Exact path matches win over prefix matches; a config path
// ending in "/" matches any path under it. Returns nil when nothing
// matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is never throttled.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}

	return nil
}
