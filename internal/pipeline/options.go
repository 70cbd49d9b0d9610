package pipeline

import (
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/compile"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/rendering"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
)

const (
	// DefaultMaxIterations bounds the optimize/score loop
	DefaultMaxIterations = 3
	// DefaultTargetScore ends the loop early once reached
	DefaultTargetScore = 85.0
	// DefaultUploadTimeout bounds one upload plus presign
	DefaultUploadTimeout = 60 * time.Second
	// DefaultScoreTimeout bounds text extraction and scoring
	DefaultScoreTimeout = 30 * time.Second
	// DefaultFetchTimeout bounds fetching a job description from a URL
	DefaultFetchTimeout = 45 * time.Second
)

// Options tunes a Pipeline. Zero values fall back to the defaults above.
type Options struct {
	MaxIterations  int
	TargetScore    float64
	ScoringEnabled bool

	Bucket      string
	PresignTTL  time.Duration
	KeyStrategy storage.KeyStrategy

	LLMTimeout     time.Duration
	CompileTimeout time.Duration
	UploadTimeout  time.Duration
	ScoreTimeout   time.Duration
	FetchTimeout   time.Duration

	// WorkDir is the parent of per-run scratch directories; empty means os.TempDir
	WorkDir     string
	KeepWorkDir bool
	Render      rendering.Options
}

// DefaultOptions returns the production defaults with scoring enabled.
func DefaultOptions() Options {
	return Options{
		MaxIterations:  DefaultMaxIterations,
		TargetScore:    DefaultTargetScore,
		ScoringEnabled: true,
		Bucket:         storage.DefaultBucket,
		PresignTTL:     storage.DefaultPresignTTL,
		KeyStrategy:    storage.KeyStrategyDemo,
		LLMTimeout:     llm.DefaultTimeout,
		CompileTimeout: compile.DefaultTimeout,
		UploadTimeout:  DefaultUploadTimeout,
		ScoreTimeout:   DefaultScoreTimeout,
		FetchTimeout:   DefaultFetchTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.TargetScore <= 0 {
		o.TargetScore = d.TargetScore
	}
	if o.Bucket == "" {
		o.Bucket = d.Bucket
	}
	if o.PresignTTL <= 0 {
		o.PresignTTL = d.PresignTTL
	}
	if o.KeyStrategy == "" {
		o.KeyStrategy = d.KeyStrategy
	}
	if o.LLMTimeout <= 0 {
		o.LLMTimeout = d.LLMTimeout
	}
	if o.CompileTimeout <= 0 {
		o.CompileTimeout = d.CompileTimeout
	}
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = d.UploadTimeout
	}
	if o.ScoreTimeout <= 0 {
		o.ScoreTimeout = d.ScoreTimeout
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = d.FetchTimeout
	}
	return o
}
