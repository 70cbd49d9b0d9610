package rewriting

import (
	"context"
	"errors"
	"testing"

	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanOverview(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Seasoned engineer.", "Seasoned engineer."},
		{"quoted", `"Seasoned engineer."`, "Seasoned engineer."},
		{"heading and lines", "## Overview\nSeasoned engineer.\nLoves Go.", "Seasoned engineer. Loves Go."},
		{"label line", "Professional Overview:\nSeasoned engineer.", "Seasoned engineer."},
		{"fenced", "```\nSeasoned engineer.\n```", "Seasoned engineer."},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanOverview(tt.input))
		})
	}
}

func TestWriteOverview(t *testing.T) {
	client := llmtest.NewFakeClient("Backend engineer with five years of Go.")

	overview, err := WriteOverview(context.Background(), client, baseProfile(), "Go role")
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer with five years of Go.", overview)

	call := client.Calls()[0]
	assert.False(t, call.JSON)
	assert.Equal(t, llm.TierLite, call.Tier)
	assert.Contains(t, call.Prompt, "Go role")
}

func TestWriteOverview_EmptyResponse(t *testing.T) {
	_, err := WriteOverview(context.Background(), llmtest.NewFakeClient("   "), baseProfile(), "Go role")
	var malformed *llm.MalformedOutputError
	require.ErrorAs(t, err, &malformed)
}

func TestEnsureSummary(t *testing.T) {
	t.Run("existing summary untouched", func(t *testing.T) {
		profile := baseProfile()
		profile.Summary = "Already here."
		client := llmtest.NewFakeClient("unused")

		out, err := EnsureSummary(context.Background(), client, profile, "jd")
		require.NoError(t, err)
		assert.Equal(t, "Already here.", out.Summary)
		assert.Empty(t, client.Calls())
	})

	t.Run("fills blank summary", func(t *testing.T) {
		profile := baseProfile()
		out, err := EnsureSummary(context.Background(), llmtest.NewFakeClient("Generated."), profile, "jd")
		require.NoError(t, err)
		assert.Equal(t, "Generated.", out.Summary)
		assert.Equal(t, "", profile.Summary)
	})

	t.Run("failure returns input", func(t *testing.T) {
		profile := baseProfile()
		client := llmtest.NewFakeClientWithReplies(llmtest.Reply{Err: errors.New("down")})
		out, err := EnsureSummary(context.Background(), client, profile, "jd")
		require.Error(t, err)
		assert.Same(t, profile, out)
	})
}
