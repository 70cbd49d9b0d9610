package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/compile"
	"github.com/maheshdila/cv-gen-BE/internal/config"
	"github.com/maheshdila/cv-gen-BE/internal/db"
	"github.com/maheshdila/cv-gen-BE/internal/fetch"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/logging"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

// loadConfig reads the configuration and applies the persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return config.Config{}, errors.Wrap(err, "failed to load config")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cfg.Verbose && !cmd.Flags().Changed("log-level") {
		cfg.LogLevel = "debug"
	}

	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

// app bundles the long-lived collaborators built from a Config.
type app struct {
	pipeline *pipeline.Pipeline
	llm      llm.Client
	cache    *fetch.Cache
}

func (a *app) Close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
}

// llmConfig returns the model configuration, applying a single-model override to every tier.
func llmConfig(cfg config.Config) *llm.Config {
	c := llm.DefaultConfig()
	if cfg.Model != "" {
		c = c.WithSingleModel(cfg.Model)
	}
	c.Timeout = cfg.LLMTimeout()
	return c
}

// pipelineOptions maps configuration onto pipeline options.
func pipelineOptions(cfg config.Config) (pipeline.Options, error) {
	strategy, err := storage.ParseKeyStrategy(cfg.KeyStrategy)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.DefaultOptions()
	opts.MaxIterations = cfg.MaxIterations
	opts.TargetScore = cfg.TargetScore
	opts.ScoringEnabled = !cfg.DisableScoring
	opts.Bucket = cfg.Bucket
	opts.PresignTTL = cfg.PresignTTL()
	opts.KeyStrategy = strategy
	opts.LLMTimeout = cfg.LLMTimeout()
	opts.CompileTimeout = cfg.CompileTimeout()
	opts.UploadTimeout = cfg.UploadTimeout()
	opts.WorkDir = cfg.WorkDir
	return opts, nil
}

// newObjectStore writes to LocalStorageDir when set, otherwise to S3.
func newObjectStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
	if cfg.LocalStorageDir != "" {
		slog.Info("storing documents on disk", "dir", cfg.LocalStorageDir)
		return storage.NewLocalStore(cfg.LocalStorageDir), nil
	}
	store, err := storage.NewS3Store(ctx, storage.S3Options{
		Region:   cfg.Region,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newUserStore opens the configured record store. It returns nil for "none".
func newUserStore(ctx context.Context, cfg config.Config) (userstore.Store, error) {
	switch cfg.UserStore {
	case config.UserStoreMemory:
		return userstore.NewMemoryStore(), nil
	case config.UserStorePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, errors.Wrap(err, "failed to migrate database")
		}
		return db.NewUserQueries(database), nil
	case config.UserStoreRedis:
		store, err := userstore.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		return store, nil
	default:
		return nil, nil
	}
}

// newApp builds the pipeline and its collaborators.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable or api_key config value is required")
	}

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM client")
	}

	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to create object store")
	}

	compiler := compile.NewTypstCompiler(cfg.TypstBinary, cfg.CompileTimeout())
	compiler.FontPaths = cfg.FontPaths

	cache := fetch.NewRedisCache(ctx, cfg.RedisURL, fetch.DefaultCacheTTL)
	fetcher := fetch.NewJobFetcher(cache)
	if cfg.UseBrowser {
		fetcher.Browser = fetch.NewChromeRenderer()
	}

	p := pipeline.New(client, compiler, objects, ats.NewScorer(), opts)
	p.Fetcher = fetcher

	return &app{pipeline: p, llm: client, cache: cache}, nil
}
