// Package pipeline orchestrates a generation run: extraction, optimization, ordering, rendering,
// compilation, upload and the bounded ATS improvement loop.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/compile"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/logging"
	"github.com/maheshdila/cv-gen-BE/internal/ranking"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// Outcome describes how a successful run ended.
type Outcome string

const (
	// OutcomeCompleted means scoring was disabled and the first artifact was returned
	OutcomeCompleted Outcome = "completed"
	// OutcomeScoreReached means an iteration met the target score
	OutcomeScoreReached Outcome = "score_reached"
	// OutcomeIterationCapExceeded means the target was never met; the best artifact is returned
	OutcomeIterationCapExceeded Outcome = "iteration_cap_exceeded"
)

// JobDescriptionFetcher resolves a job posting URL to its text.
type JobDescriptionFetcher interface {
	FetchJobDescription(ctx context.Context, url string) (string, error)
}

// DocumentScorer scores a compiled document against a job description.
type DocumentScorer interface {
	ScoreDocument(ctx context.Context, path, jobDescription string) (*ats.Report, error)
}

// Pipeline holds the collaborators of a run. A Pipeline is safe for concurrent use when its
// collaborators are; each run works in its own scratch directory.
type Pipeline struct {
	LLM      llm.Client
	Compiler compile.Compiler
	Store    storage.ObjectStore
	Scorer   DocumentScorer
	Fetcher  JobDescriptionFetcher
	Options  Options

	// Now is the clock used for artifact keys and recency scoring
	Now func() time.Time
}

// New builds a Pipeline with the given collaborators.
func New(client llm.Client, compiler compile.Compiler, store storage.ObjectStore, scorer DocumentScorer, opts Options) *Pipeline {
	return &Pipeline{
		LLM:      client,
		Compiler: compiler,
		Store:    store,
		Scorer:   scorer,
		Options:  opts,
	}
}

// Result is the outcome of a successful run.
type Result struct {
	RunID          string                  `json:"runId"`
	Message        string                  `json:"message"`
	URL            string                  `json:"url"`
	Bucket         string                  `json:"bucket"`
	Key            string                  `json:"key"`
	Pages          int                     `json:"pages,omitempty"`
	Outcome        Outcome                 `json:"outcome"`
	Iterations     int                     `json:"iterations"`
	ATS            *ats.Report             `json:"ats,omitempty"`
	Requirements   *types.JobRequirements  `json:"requirements"`
	Match          *ranking.MatchReport    `json:"match"`
	Profile        *types.CandidateProfile `json:"profile"`
	JobDescription string                  `json:"-"`
}

// Run executes one generation request end to end. Any stage failure aborts the run and is
// returned as a *StageError; no artifact from a failed run is reported.
func (p *Pipeline) Run(ctx context.Context, req *types.GenerateRequest, onProgress ProgressCallback) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if p.LLM == nil || p.Compiler == nil || p.Store == nil {
		return nil, fmt.Errorf("pipeline is missing a collaborator (llm, compiler and store are required)")
	}

	opts := p.Options.withDefaults()
	runID := uuid.New().String()
	log := logging.FromContext(ctx).With("run_id", runID)
	ev := emitter{runID: runID, callback: onProgress}
	ev.emit(StageFetch, CategoryLifecycle, 0, "Run started", nil)

	jobDescription, err := p.resolveJobDescription(ctx, req, opts)
	if err != nil {
		return nil, stageError(StageFetch, 0, err)
	}

	requirements := ranking.AnalyzeJobDescription(jobDescription)
	log.Info("analyzed job description",
		"stage", StageAnalyze,
		"technologies", len(requirements.Technologies),
		"seniority", requirements.Seniority)
	ev.emit(StageAnalyze, CategoryInput, 0,
		fmt.Sprintf("Detected %d required technologies", len(requirements.Technologies)), requirements)

	extracted, err := p.extract(ctx, &req.FormData, opts)
	if err != nil {
		return nil, stageError(StageExtract, 0, err)
	}
	log.Info("extracted profile", "stage", StageExtract,
		"work_experience", len(extracted.WorkExperience), "projects", len(extracted.Projects))
	ev.emit(StageExtract, CategoryContent, 0, "Extracted candidate profile", extracted)

	workDir, err := os.MkdirTemp(opts.WorkDir, "cv-run-*")
	if err != nil {
		return nil, stageError(StageCompile, 0, fmt.Errorf("failed to create working directory: %w", err))
	}
	if !opts.KeepWorkDir {
		defer func() { _ = os.RemoveAll(workDir) }()
	}

	run := &run{
		pipeline:       p,
		opts:           opts,
		runID:          runID,
		log:            log,
		events:         ev,
		workDir:        workDir,
		jobDescription: jobDescription,
		requirements:   requirements,
		extracted:      extracted,
		email:          req.FormData.PersonalDetails.Email,
		now:            p.now(),
	}
	result, err := run.loop(ctx)
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	result.Requirements = requirements
	result.JobDescription = jobDescription
	result.Match = ranking.Match(result.Profile, requirements)
	ev.emit(StageDone, CategoryLifecycle, result.Iterations, result.Message, result)
	log.Info("run finished", "outcome", result.Outcome, "iterations", result.Iterations, "key", result.Key)
	return result, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) resolveJobDescription(ctx context.Context, req *types.GenerateRequest, opts Options) (string, error) {
	if jd := strings.TrimSpace(req.JobDescription); jd != "" {
		return jd, nil
	}
	if strings.TrimSpace(req.JobURL) == "" {
		return "", fmt.Errorf("job description is empty")
	}
	if p.Fetcher == nil {
		return "", fmt.Errorf("fetching job descriptions from URLs is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, opts.FetchTimeout)
	defer cancel()
	jd, err := p.Fetcher.FetchJobDescription(ctx, req.JobURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(jd) == "" {
		return "", fmt.Errorf("no job description text found at %s", req.JobURL)
	}
	return jd, nil
}

func iterationDir(workDir string, iteration int) string {
	return filepath.Join(workDir, fmt.Sprintf("iteration-%d", iteration))
}
