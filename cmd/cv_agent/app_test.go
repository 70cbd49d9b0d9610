package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshdila/cv-gen-BE/internal/config"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

func TestLLMConfig(t *testing.T) {
	cfg := config.Defaults()
	c := llmConfig(cfg)
	assert.Equal(t, "gemini-2.5-pro", c.GetModel(llm.TierAdvanced))
	assert.Equal(t, 90*time.Second, c.Timeout)

	cfg.Model = "gemini-2.0-flash"
	c = llmConfig(cfg)
	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		assert.Equal(t, "gemini-2.0-flash", c.GetModel(tier))
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Defaults()
	cfg.KeyStrategy = "email-hash"
	cfg.DisableScoring = true
	cfg.MaxIterations = 5
	cfg.WorkDir = "/tmp/cv"

	opts, err := pipelineOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, storage.KeyStrategyEmailHash, opts.KeyStrategy)
	assert.False(t, opts.ScoringEnabled)
	assert.Equal(t, 5, opts.MaxIterations)
	assert.Equal(t, 85.0, opts.TargetScore)
	assert.Equal(t, "cv-bucket-protfolio-app", opts.Bucket)
	assert.Equal(t, time.Hour, opts.PresignTTL)
	assert.Equal(t, 30*time.Second, opts.CompileTimeout)
	assert.Equal(t, "/tmp/cv", opts.WorkDir)

	cfg.KeyStrategy = "random"
	_, err = pipelineOptions(cfg)
	assert.Error(t, err)
}

func TestNewUserStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()

	store, err := newUserStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg.UserStore = config.UserStoreMemory
	store, err = newUserStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &userstore.MemoryStore{}, store)

	cfg.UserStore = config.UserStoreRedis
	cfg.RedisURL = "not-a-redis-url"
	_, err = newUserStore(ctx, cfg)
	assert.Error(t, err)
}

func TestNewObjectStore_Local(t *testing.T) {
	cfg := config.Defaults()
	cfg.LocalStorageDir = t.TempDir()

	store, err := newObjectStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)
}

func TestNewApp_RequiresAPIKey(t *testing.T) {
	_, err := newApp(context.Background(), config.Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
