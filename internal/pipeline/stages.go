package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/chronology"
	"github.com/maheshdila/cv-gen-BE/internal/compile"
	"github.com/maheshdila/cv-gen-BE/internal/parsing"
	"github.com/maheshdila/cv-gen-BE/internal/ranking"
	"github.com/maheshdila/cv-gen-BE/internal/rendering"
	"github.com/maheshdila/cv-gen-BE/internal/rewriting"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

func (p *Pipeline) extract(ctx context.Context, submitted *types.CandidateProfile, opts Options) (*types.CandidateProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.LLMTimeout)
	defer cancel()
	return parsing.ExtractProfile(ctx, p.LLM, submitted)
}

// run carries the state of one request through the improvement loop.
type run struct {
	pipeline       *Pipeline
	opts           Options
	runID          string
	log            *slog.Logger
	events         emitter
	workDir        string
	jobDescription string
	requirements   *types.JobRequirements
	extracted      *types.CandidateProfile
	email          string
	now            time.Time
}

func (r *run) clock() time.Time { return r.now }

// attempt is the artifact produced by one iteration.
type attempt struct {
	iteration int
	profile   *types.CandidateProfile
	artifact  *compile.Artifact
	published *storage.Published
	report    *ats.Report
}

func (r *run) loop(ctx context.Context) (*Result, error) {
	var best *attempt
	var feedback *rewriting.Feedback

	for iteration := 1; iteration <= r.opts.MaxIterations; iteration++ {
		current, err := r.iterate(ctx, iteration, feedback)
		if err != nil {
			return nil, err
		}

		if !r.scoringEnabled() {
			return r.result(current, OutcomeCompleted, iteration), nil
		}

		if best == nil || current.report.Overall > best.report.Overall {
			best = current
		}
		if current.report.Overall >= r.opts.TargetScore {
			return r.result(current, OutcomeScoreReached, iteration), nil
		}

		r.log.Warn("score below target",
			"stage", StageScore, "iteration", iteration,
			"score", current.report.Overall, "target", r.opts.TargetScore)
		feedback = &rewriting.Feedback{
			Score:           current.report.Overall,
			Recommendations: current.report.Recommendations,
		}
	}

	return r.result(best, OutcomeIterationCapExceeded, r.opts.MaxIterations), nil
}

func (r *run) scoringEnabled() bool {
	return r.opts.ScoringEnabled && r.pipeline.Scorer != nil
}

func (r *run) iterate(ctx context.Context, iteration int, feedback *rewriting.Feedback) (*attempt, error) {
	optimized, err := r.optimize(ctx, feedback)
	if err != nil {
		return nil, stageError(StageOptimize, iteration, err)
	}
	r.log.Info("optimized profile", "stage", StageOptimize, "iteration", iteration)
	r.events.emit(StageOptimize, CategoryContent, iteration, "Optimized profile for the job description", nil)

	optimized = r.ensureOverview(ctx, optimized, iteration)

	scorer := &ranking.Scorer{Requirements: r.requirements, Now: r.clock}
	ordered := scorer.Reorder(chronology.NormalizeProfile(optimized))
	r.events.emit(StageReorder, CategoryContent, iteration, "Ordered entries by date and relevance", ordered)

	markup, err := rendering.RenderDocument(ordered, r.opts.Render)
	if err != nil {
		return nil, stageError(StageRender, iteration, err)
	}
	r.events.emit(StageRender, CategoryDocument, iteration, "Assembled Typst document", nil)

	artifact, err := r.compile(ctx, markup, iteration)
	if err != nil {
		return nil, stageError(StageCompile, iteration, err)
	}
	r.log.Info("compiled document", "stage", StageCompile, "iteration", iteration, "bytes", artifact.Size, "pages", artifact.Pages)
	r.events.emit(StageCompile, CategoryDocument, iteration, fmt.Sprintf("Compiled PDF (%d bytes)", artifact.Size), nil)

	published, err := r.upload(ctx, artifact.Path, iteration)
	if err != nil {
		return nil, stageError(StageUpload, iteration, err)
	}
	r.events.emit(StageUpload, CategoryDocument, iteration, "Uploaded document", published)

	current := &attempt{iteration: iteration, profile: ordered, artifact: artifact, published: published}
	if !r.scoringEnabled() {
		return current, nil
	}

	report, err := r.score(ctx, artifact.Path)
	if err != nil {
		return nil, stageError(StageScore, iteration, err)
	}
	r.log.Info("scored document", "stage", StageScore, "iteration", iteration, "score", report.Overall)
	r.events.emit(StageScore, CategoryScoring, iteration, fmt.Sprintf("ATS score %.2f", report.Overall), report)
	current.report = report
	return current, nil
}

func (r *run) optimize(ctx context.Context, feedback *rewriting.Feedback) (*types.CandidateProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.LLMTimeout)
	defer cancel()
	return rewriting.OptimizeProfile(ctx, r.pipeline.LLM, r.extracted, r.jobDescription, r.requirements, feedback)
}

// ensureOverview fills a missing summary. The document renders without one, so failures only warn.
func (r *run) ensureOverview(ctx context.Context, profile *types.CandidateProfile, iteration int) *types.CandidateProfile {
	ctx, cancel := context.WithTimeout(ctx, r.opts.LLMTimeout)
	defer cancel()

	out, err := rewriting.EnsureSummary(ctx, r.pipeline.LLM, profile, r.jobDescription)
	if err != nil {
		r.log.Warn("overview generation failed", "stage", StageOverview, "iteration", iteration, "error", err)
	}
	return out
}

func (r *run) compile(ctx context.Context, markup string, iteration int) (*compile.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.CompileTimeout)
	defer cancel()
	return r.pipeline.Compiler.Compile(ctx, markup, iterationDir(r.workDir, iteration))
}

func (r *run) upload(ctx context.Context, path string, iteration int) (*storage.Published, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.UploadTimeout)
	defer cancel()

	suffix := fmt.Sprintf("%s-%d", r.runID[:8], iteration)
	key := storage.ArtifactKey(r.opts.KeyStrategy, r.email, r.now, suffix)
	return storage.Publish(ctx, r.pipeline.Store, path, storage.Location{
		Bucket: r.opts.Bucket,
		Key:    key,
		TTL:    r.opts.PresignTTL,
	})
}

func (r *run) score(ctx context.Context, path string) (*ats.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.ScoreTimeout)
	defer cancel()
	return r.pipeline.Scorer.ScoreDocument(ctx, path, r.jobDescription)
}

func (r *run) result(a *attempt, outcome Outcome, iterations int) *Result {
	message := "CV generated successfully"
	switch outcome {
	case OutcomeScoreReached:
		message = fmt.Sprintf("CV generated successfully with ATS score %.2f", a.report.Overall)
	case OutcomeIterationCapExceeded:
		message = fmt.Sprintf("CV generated; best ATS score %.2f after %d iterations is below the target %.2f",
			a.report.Overall, iterations, r.opts.TargetScore)
	}

	return &Result{
		Message:    message,
		URL:        a.published.URL,
		Bucket:     a.published.Bucket,
		Key:        a.published.Key,
		Pages:      a.artifact.Pages,
		Outcome:    outcome,
		Iterations: iterations,
		ATS:        a.report,
		Profile:    a.profile,
	}
}
