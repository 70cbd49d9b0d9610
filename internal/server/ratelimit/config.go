package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom is LoadConfig reading variables through getenv. Malformed values fall
// back to their defaults. RATE_LIMIT_GENERATE_PER_HOUR overrides the hourly limit of
// both generation routes.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	endpoints := DefaultEndpointConfigs()
	if perHour := env.integer("RATE_LIMIT_GENERATE_PER_HOUR", 0); perHour > 0 {
		for i := range endpoints {
			if strings.HasPrefix(endpoints[i].Path, "/generate-cv") {
				endpoints[i].Limit = perHour
			}
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         env.duration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Document generation (strictest limits)
		{Path: "/generate-cv", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/generate-cv/stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// Tier 2: Scoring uploads
		{Path: "/ats-score", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 3: User record writes
		{Path: "/queries-save", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/query-update", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads use the default limit; health checks are unlimited (see MatchEndpoint)
	}
}

// envReader parses typed values out of an environment lookup.
type envReader func(string) string

func (env envReader) integer(key string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(env(key))); err == nil {
		return n
	}
	return fallback
}

func (env envReader) boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(env(key))); err == nil {
		return b
	}
	return fallback
}

func (env envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(env(key))); err == nil {
		return d
	}
	return fallback
}

// parseIPList parses a comma-separated list of client addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
