package ratelimit

import "strings"

// unlimitedPaths are never rate limited, whatever the method.
var unlimitedPaths = map[string]bool{
	"/health": true,
}

// MatchEndpoint returns the configuration governing a request, or nil when the default
// limit applies. An exact path beats a prefix entry (a Path ending in "/"), and an entry
// whose Method is "*" matches every method. Unlimited paths yield a zero-limit config.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "*" && !strings.EqualFold(cfg.Method, method) {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if prefix == nil && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			prefix = cfg
		}
	}
	return prefix
}
