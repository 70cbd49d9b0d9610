// Package parsing turns a raw candidate submission into a structured CandidateProfile using the language model.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/prompts"
	"github.com/maheshdila/cv-gen-BE/internal/schemas"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// ExtractProfile asks the model to restructure the submitted form data into a CandidateProfile.
// Contact details present in the submission always win over what the model returns.
func ExtractProfile(ctx context.Context, client llm.Client, submitted *types.CandidateProfile) (*types.CandidateProfile, error) {
	if client == nil {
		return nil, llm.ErrNoClient()
	}
	if submitted == nil {
		submitted = &types.CandidateProfile{}
	}

	prompt, err := buildExtractionPrompt(submitted)
	if err != nil {
		return nil, err
	}

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &llm.CallError{Tier: llm.TierStandard, Message: "failed to extract candidate profile", Cause: err}
	}

	profile, err := DecodeProfile(responseText)
	if err != nil {
		return nil, err
	}

	mergePersonalDetails(&profile.PersonalDetails, submitted.PersonalDetails)
	normalizeProfile(profile)
	return profile, nil
}

func buildExtractionPrompt(submitted *types.CandidateProfile) (string, error) {
	raw, err := json.MarshalIndent(submitted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize submitted profile: %w", err)
	}
	return prompts.Render(prompts.ExtractionFile, "extract-profile", map[string]string{
		"RawInput": string(raw),
	}), nil
}

// DecodeProfile parses model output into a CandidateProfile. Output that is not JSON, or JSON that
// does not match the profile schema, yields an *llm.MalformedOutputError carrying the raw text.
func DecodeProfile(responseText string) (*types.CandidateProfile, error) {
	var raw json.RawMessage
	if err := llm.ParseJSON(responseText, &raw); err != nil {
		return nil, err
	}

	if err := schemas.ValidateProfileJSON(string(raw)); err != nil {
		return nil, &llm.MalformedOutputError{
			Message: "response does not match the candidate profile schema",
			Raw:     string(raw),
			Cause:   err,
		}
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, &llm.MalformedOutputError{
			Message: "response has unexpected field types",
			Raw:     string(raw),
			Cause:   err,
		}
	}
	return &profile, nil
}

// mergePersonalDetails keeps every non-blank submitted contact field.
func mergePersonalDetails(dst *types.PersonalDetails, submitted types.PersonalDetails) {
	pick := func(field *string, value string) {
		if v := strings.TrimSpace(value); v != "" {
			*field = v
		}
	}
	pick(&dst.FullName, submitted.FullName)
	pick(&dst.Email, submitted.Email)
	pick(&dst.Phone, submitted.Phone)
	pick(&dst.Address, submitted.Address)
	pick(&dst.LinkedIn, submitted.LinkedIn)
	pick(&dst.GitHub, submitted.GitHub)
	pick(&dst.Portfolio, submitted.Portfolio)
}
