package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/prompts"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// WriteOverview generates a short professional overview when the profile has no summary.
func WriteOverview(ctx context.Context, client llm.Client, profile *types.CandidateProfile, jobDescription string) (string, error) {
	if client == nil {
		return "", llm.ErrNoClient()
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile: %w", err)
	}

	prompt := prompts.Render(prompts.OptimizationFile, "write-overview", map[string]string{
		"Profile":        string(raw),
		"JobDescription": strings.TrimSpace(jobDescription),
	})

	responseText, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &llm.CallError{Tier: llm.TierLite, Message: "failed to write overview", Cause: err}
	}

	overview := cleanOverview(responseText)
	if overview == "" {
		return "", &llm.MalformedOutputError{Message: "empty overview", Raw: responseText}
	}
	return overview, nil
}

// cleanOverview strips fences, headings and wrapping quotes and joins the text into one paragraph.
func cleanOverview(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasSuffix(line, ":") {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, " ")
	return strings.Trim(joined, "\"'“”")
}

// EnsureSummary fills an empty summary using WriteOverview. A failure leaves the profile unchanged.
func EnsureSummary(ctx context.Context, client llm.Client, profile *types.CandidateProfile, jobDescription string) (*types.CandidateProfile, error) {
	if strings.TrimSpace(profile.Summary) != "" {
		return profile, nil
	}
	overview, err := WriteOverview(ctx, client, profile, jobDescription)
	if err != nil {
		return profile, err
	}
	out := profile.Clone()
	out.Summary = overview
	return out, nil
}
