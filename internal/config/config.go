// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/storage"
)

// User store backends.
const (
	UserStoreNone     = "none"
	UserStoreMemory   = "memory"
	UserStorePostgres = "postgres"
	UserStoreRedis    = "redis"
)

// Config is the service configuration. It can be loaded from a JSON file, overlaid by
// environment variables and finally filled from Defaults.
type Config struct {
	// LLM
	APIKey            string `json:"api_key,omitempty"`             // Gemini API key
	Model             string `json:"model,omitempty"`               // Overrides the model of every tier
	LLMTimeoutSeconds int    `json:"llm_timeout_seconds,omitempty"` // Per-call timeout

	// Document compiler
	TypstBinary           string   `json:"typst_binary,omitempty"`
	CompileTimeoutSeconds int      `json:"compile_timeout_seconds,omitempty"`
	FontPaths             []string `json:"font_paths,omitempty"`

	// Object store
	Bucket               string `json:"bucket,omitempty"`
	Region               string `json:"region,omitempty"`
	S3Endpoint           string `json:"s3_endpoint,omitempty"`       // Custom endpoint (MinIO, LocalStack)
	LocalStorageDir      string `json:"local_storage_dir,omitempty"` // Write artifacts to disk instead of S3
	PresignTTLSeconds    int    `json:"presign_ttl_seconds,omitempty"`
	UploadTimeoutSeconds int    `json:"upload_timeout_seconds,omitempty"`
	KeyStrategy          string `json:"key_strategy,omitempty"` // demo or email-hash

	// Optimization loop
	MaxIterations  int     `json:"max_iterations,omitempty"`
	TargetScore    float64 `json:"target_score,omitempty"`
	DisableScoring bool    `json:"disable_scoring,omitempty"`

	// Job description fetching
	UseBrowser bool `json:"use_browser,omitempty"` // Render JavaScript-heavy postings in headless Chrome

	// User records
	UserStore   string `json:"user_store,omitempty"` // none, memory, postgres or redis
	DatabaseURL string `json:"database_url,omitempty"`
	RedisURL    string `json:"redis_url,omitempty"`

	// Process
	Port      int    `json:"port,omitempty"`
	WorkDir   string `json:"work_dir,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
	Verbose   bool   `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the values used for every field left empty.
func Defaults() Config {
	return Config{
		LLMTimeoutSeconds:     90,
		TypstBinary:           "typst",
		CompileTimeoutSeconds: 30,
		Bucket:                "cv-bucket-protfolio-app",
		Region:                "ap-southeast-1",
		PresignTTLSeconds:     3600,
		UploadTimeoutSeconds:  60,
		KeyStrategy:           "demo",
		MaxIterations:         3,
		TargetScore:           85,
		UserStore:             UserStoreNone,
		Port:                  8080,
		LogLevel:              "info",
		LogFormat:             "text",
	}
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

// ApplyEnv overlays values found through getenv (usually os.Getenv). Set variables win over
// file values. Malformed numbers are reported rather than ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(target *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				*target = v
				return
			}
		}
	}
	setInt := func(target *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = n
		return nil
	}
	setBool := func(target *bool, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = b
		return nil
	}

	setString(&c.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setString(&c.Model, "GEMINI_MODEL")
	setString(&c.TypstBinary, "TYPST_BIN")
	setString(&c.Bucket, "S3_BUCKET")
	setString(&c.Region, "AWS_REGION")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.LocalStorageDir, "LOCAL_STORAGE_DIR")
	setString(&c.KeyStrategy, "CV_KEY_STRATEGY")
	setString(&c.UserStore, "USER_STORE")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.WorkDir, "CV_WORK_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	if fonts := strings.TrimSpace(getenv("TYPST_FONT_PATHS")); fonts != "" {
		c.FontPaths = filepath.SplitList(fonts)
	}

	for _, f := range []func() error{
		func() error { return setInt(&c.LLMTimeoutSeconds, "LLM_TIMEOUT_SECONDS") },
		func() error { return setInt(&c.CompileTimeoutSeconds, "COMPILE_TIMEOUT_SECONDS") },
		func() error { return setInt(&c.PresignTTLSeconds, "PRESIGN_TTL_SECONDS") },
		func() error { return setInt(&c.UploadTimeoutSeconds, "UPLOAD_TIMEOUT_SECONDS") },
		func() error { return setInt(&c.MaxIterations, "MAX_ITERATIONS") },
		func() error { return setInt(&c.Port, "PORT") },
		func() error { return setBool(&c.DisableScoring, "DISABLE_ATS_SCORING") },
		func() error { return setBool(&c.UseBrowser, "USE_BROWSER") },
	} {
		if err := f(); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(getenv("TARGET_ATS_SCORE")); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TARGET_ATS_SCORE: %w", err)
		}
		c.TargetScore = score
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("config error: 'max_iterations' must be non-negative")
	}
	if c.TargetScore < 0 || c.TargetScore > 100 {
		return fmt.Errorf("config error: 'target_score' must be between 0 and 100")
	}
	for name, v := range map[string]int{
		"llm_timeout_seconds":     c.LLMTimeoutSeconds,
		"compile_timeout_seconds": c.CompileTimeoutSeconds,
		"presign_ttl_seconds":     c.PresignTTLSeconds,
		"upload_timeout_seconds":  c.UploadTimeoutSeconds,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	if _, err := storage.ParseKeyStrategy(c.KeyStrategy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.UserStore {
	case "", UserStoreNone, UserStoreMemory:
	case UserStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres user store")
		}
	case UserStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis user store")
		}
	default:
		return fmt.Errorf("config error: unknown 'user_store' %q", c.UserStore)
	}

	if c.LocalStorageDir != "" {
		if info, err := os.Stat(c.LocalStorageDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: local storage path is not a directory: %s", c.LocalStorageDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString := func(target *string, def string) {
		if *target == "" {
			*target = def
		}
	}
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.TypstBinary, defaults.TypstBinary)
	mergeString(&result.Bucket, defaults.Bucket)
	mergeString(&result.Region, defaults.Region)
	mergeString(&result.S3Endpoint, defaults.S3Endpoint)
	mergeString(&result.LocalStorageDir, defaults.LocalStorageDir)
	mergeString(&result.KeyStrategy, defaults.KeyStrategy)
	mergeString(&result.UserStore, defaults.UserStore)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisURL, defaults.RedisURL)
	mergeString(&result.WorkDir, defaults.WorkDir)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Int fields: use default if zero
	mergeInt := func(target *int, def int) {
		if *target == 0 {
			*target = def
		}
	}
	mergeInt(&result.LLMTimeoutSeconds, defaults.LLMTimeoutSeconds)
	mergeInt(&result.CompileTimeoutSeconds, defaults.CompileTimeoutSeconds)
	mergeInt(&result.PresignTTLSeconds, defaults.PresignTTLSeconds)
	mergeInt(&result.UploadTimeoutSeconds, defaults.UploadTimeoutSeconds)
	mergeInt(&result.MaxIterations, defaults.MaxIterations)
	mergeInt(&result.Port, defaults.Port)

	if result.TargetScore == 0 {
		result.TargetScore = defaults.TargetScore
	}
	if len(result.FontPaths) == 0 {
		result.FontPaths = defaults.FontPaths
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load reads the optional JSON file at path, applies the environment and defaults, and
// validates the result.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// LLMTimeout is the per-call model timeout.
func (c *Config) LLMTimeout() time.Duration { return seconds(c.LLMTimeoutSeconds) }

// CompileTimeout bounds one compiler invocation.
func (c *Config) CompileTimeout() time.Duration { return seconds(c.CompileTimeoutSeconds) }

// PresignTTL is the lifetime of download links.
func (c *Config) PresignTTL() time.Duration { return seconds(c.PresignTTLSeconds) }

// UploadTimeout bounds one upload plus presign.
func (c *Config) UploadTimeout() time.Duration { return seconds(c.UploadTimeoutSeconds) }
