package ats

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongCV = `Ada Lovelace ada@example.com 555-123-4567
Experience
Senior Engineer, Acme 2021 - Present
Developed Python services on AWS that improved throughput by 40%.
Implemented Docker based deployments and designed the Kubernetes rollout.
Education
BSc Computer Science 2019
Skills
Python, AWS, Docker, Kubernetes, SQL
Projects
Created a scheduling tool and led a team of four. Managed releases.`

func TestScore_StrongDocument(t *testing.T) {
	report := Score(strongCV, "We need Python, AWS and Docker experience.")

	assert.Equal(t, 100.0, report.Keyword)
	assert.Equal(t, 90.0, report.Format)
	// quantifiable 30 + seven verbs 35, under 200 words
	assert.Equal(t, 65.0, report.Content)
	assert.Equal(t, 90.0, report.Overall)
	assert.Equal(t, "Excellent! Your CV meets ATS requirements.", report.Feedback)
	assert.Empty(t, report.Recommendations)
	assert.Equal(t, []string{"python", "aws", "docker"}, report.MatchedKeywords)
	assert.Empty(t, report.MissingKeywords)
}

func TestScore_NoKeywordsInJobDescription(t *testing.T) {
	report := Score(strongCV, "Friendly team, great snacks.")
	assert.Equal(t, 50.0, report.Keyword)
}

func TestScore_WeakDocument(t *testing.T) {
	report := Score("John Smith\nI like computers.", "Python, Java, AWS, Docker, Kubernetes, Terraform and SQL with agile scrum")

	assert.Equal(t, 0.0, report.Keyword)
	assert.Equal(t, 0.0, report.Format)
	assert.Equal(t, 0.0, report.Content)
	assert.Equal(t, 0.0, report.Overall)
	assert.Equal(t, "CV needs significant improvements to pass ATS screening.", report.Feedback)

	require.Len(t, report.Recommendations, 4)
	assert.Equal(t, "Add these keywords: python, java, aws, docker, kubernetes", report.Recommendations[0])
	assert.Equal(t, "Add quantifiable achievements with numbers and percentages", report.Recommendations[1])
	assert.Equal(t, "Add a dedicated skills section", report.Recommendations[2])
	assert.Equal(t, "Ensure contact information is clearly visible", report.Recommendations[3])
	assert.Len(t, report.MissingKeywords, 9)
}

func TestScore_GoodBand(t *testing.T) {
	assert.Equal(t, "Good CV, but could use some improvements for better ATS compatibility.", feedback(70))
	assert.Equal(t, "Excellent! Your CV meets ATS requirements.", feedback(85))
	assert.Equal(t, "CV needs significant improvements to pass ATS screening.", feedback(69.99))
}

func TestScore_IsBounded(t *testing.T) {
	long := strings.Repeat(strongCV+" ", 10)
	report := Score(long, "python")

	for _, v := range []float64{report.Overall, report.Keyword, report.Format, report.Content} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, 85.0, report.Content)
}

func TestKeywordMatching_WordBoundaries(t *testing.T) {
	report := Score("Skills: JavaScript", "Java developer")
	assert.Equal(t, []string{"java"}, report.MissingKeywords)
}

func TestFormatScore_Components(t *testing.T) {
	assert.Equal(t, 10.0, formatScore("reach me at a@b.co"))
	assert.Equal(t, 10.0, formatScore("call 5551234567"))
	assert.Equal(t, 10.0, formatScore("since 2019"))
	assert.Equal(t, 30.0, formatScore("EXPERIENCE and Skills"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(33.3333))
	assert.Equal(t, 66.67, round2(66.6666))
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(string) (string, error) { return s.text, s.err }

func TestScorer_ScoreDocument(t *testing.T) {
	scorer := &Scorer{Extractor: stubExtractor{text: strongCV}}

	report, err := scorer.ScoreDocument(context.Background(), "cv.pdf", "python")
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Keyword)
}

func TestScorer_ExtractionFailure(t *testing.T) {
	scorer := &Scorer{Extractor: stubExtractor{err: errors.New("broken")}}

	_, err := scorer.ScoreDocument(context.Background(), "cv.pdf", "python")
	assert.EqualError(t, err, "broken")
}

func TestScorer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer().ScoreDocument(ctx, "cv.pdf", "python")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFTextExtractor_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := PDFTextExtractor{}.ExtractText(path)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, path, extractErr.Path)
}

func TestPDFTextExtractor_MissingFile(t *testing.T) {
	_, err := PDFTextExtractor{}.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
}

func TestKeywords_CatalogPlusPractices(t *testing.T) {
	assert.Len(t, Keywords, 29)
	assert.Equal(t, "api", Keywords[len(Keywords)-1])
}
