// Package rewriting tailors a CandidateProfile to a job description using the language model.
package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/logging"
	"github.com/maheshdila/cv-gen-BE/internal/parsing"
	"github.com/maheshdila/cv-gen-BE/internal/prompts"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// Feedback carries the previous ATS result into a re-optimization pass.
type Feedback struct {
	Score           float64
	Recommendations []string
}

// OptimizeProfile rewrites descriptions and the summary to better match the job description.
// Identity fields, dates, links and entry counts are always taken from profile; see applyRewrites.
func OptimizeProfile(
	ctx context.Context,
	client llm.Client,
	profile *types.CandidateProfile,
	jobDescription string,
	requirements *types.JobRequirements,
	feedback *Feedback,
) (*types.CandidateProfile, error) {
	if client == nil {
		return nil, llm.ErrNoClient()
	}
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	prompt, err := buildOptimizationPrompt(profile, jobDescription, requirements, feedback)
	if err != nil {
		return nil, err
	}

	// Rewriting for tone and keyword fit needs the stronger model
	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &llm.CallError{Tier: llm.TierAdvanced, Message: "failed to optimize profile", Cause: err}
	}

	rewritten, err := parsing.DecodeProfile(responseText)
	if err != nil {
		return nil, err
	}

	optimized, discarded := applyRewrites(profile, rewritten)
	if discarded > 0 {
		logging.FromContext(ctx).Warn("discarded rewrites that changed facts", "count", discarded)
	}
	return optimized, nil
}

func buildOptimizationPrompt(profile *types.CandidateProfile, jobDescription string, requirements *types.JobRequirements, feedback *Feedback) (string, error) {
	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile: %w", err)
	}

	technologies := "none detected"
	if requirements != nil && len(requirements.Technologies) > 0 {
		technologies = strings.Join(requirements.Technologies, ", ")
	}

	return prompts.Render(prompts.OptimizationFile, "optimize-profile", map[string]string{
		"JobDescription": strings.TrimSpace(jobDescription),
		"Technologies":   technologies,
		"Profile":        string(raw),
		"Feedback":       formatFeedback(feedback),
	}), nil
}

func formatFeedback(feedback *Feedback) string {
	if feedback == nil {
		return ""
	}

	recommendations := "- Improve keyword coverage for the job description"
	if len(feedback.Recommendations) > 0 {
		lines := make([]string, len(feedback.Recommendations))
		for i, rec := range feedback.Recommendations {
			lines[i] = "- " + rec
		}
		recommendations = strings.Join(lines, "\n")
	}

	return prompts.Render(prompts.OptimizationFile, "optimization-feedback", map[string]string{
		"Score":           fmt.Sprintf("%.2f", feedback.Score),
		"Recommendations": recommendations,
	})
}
