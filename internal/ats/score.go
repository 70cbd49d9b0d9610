// Package ats estimates how well a compiled résumé would fare in an applicant tracking system.
package ats

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/skills"
)

// Weights of the three sub-scores in the overall score.
const (
	KeywordWeight = 0.5
	FormatWeight  = 0.3
	ContentWeight = 0.2
)

const (
	// neutralKeywordScore is used when the job description names no known keyword
	neutralKeywordScore = 50.0
	// recommendationThreshold is the overall score at which no recommendations are given
	recommendationThreshold = 85.0
	goodThreshold           = 70.0
	maxMissingKeywords      = 5
	minWordCount            = 200
)

// Keywords is the list matched between job description and document.
var Keywords = append(append([]string{}, skills.Technologies...),
	"agile", "scrum", "devops", "ci/cd", "microservices", "api")

var (
	sectionHeaders = []string{"experience", "education", "skills", "projects"}
	actionVerbs    = []string{"developed", "implemented", "designed", "created", "managed", "led", "improved"}

	emailPattern        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern        = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	yearPattern         = regexp.MustCompile(`\b\d{4}\b`)
	quantifiablePattern = regexp.MustCompile(`\d+%|\$\d+|\d+x|increase|improve|reduce|save`)
	metricPattern       = regexp.MustCompile(`\d+%|\$\d+|\d+x`)
)

// Report is the result of scoring one document against one job description.
type Report struct {
	Overall         float64  `json:"overallScore"`
	Keyword         float64  `json:"keywordScore"`
	Format          float64  `json:"formatScore"`
	Content         float64  `json:"contentScore"`
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// Scorer scores compiled documents.
type Scorer struct {
	Extractor TextExtractor
}

// NewScorer returns a Scorer reading PDFs.
func NewScorer() *Scorer {
	return &Scorer{Extractor: PDFTextExtractor{}}
}

// ScoreDocument extracts the text of the document at path and scores it.
func (s *Scorer) ScoreDocument(ctx context.Context, path, jobDescription string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	extractor := s.Extractor
	if extractor == nil {
		extractor = PDFTextExtractor{}
	}
	text, err := extractor.ExtractText(path)
	if err != nil {
		return nil, err
	}
	return Score(text, jobDescription), nil
}

// Score computes the weighted report for document text against a job description.
func Score(cvText, jobDescription string) *Report {
	jobKeywords := findKeywords(jobDescription)
	cvKeywords := findKeywords(cvText)
	matched, missing := splitKeywords(jobKeywords, cvKeywords)

	keyword := keywordScore(len(jobKeywords), len(matched))
	format := formatScore(cvText)
	content := contentScore(cvText)
	overall := keyword*KeywordWeight + format*FormatWeight + content*ContentWeight

	return &Report{
		Overall:         round2(overall),
		Keyword:         round2(keyword),
		Format:          round2(format),
		Content:         round2(content),
		Feedback:        feedback(overall),
		Recommendations: recommendations(overall, cvText, missing),
		MatchedKeywords: matched,
		MissingKeywords: missing,
	}
}

func findKeywords(text string) []string {
	found := make([]string, 0)
	for _, kw := range Keywords {
		if skills.Mentions(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func splitKeywords(jobKeywords, cvKeywords []string) (matched, missing []string) {
	inCV := make(map[string]bool, len(cvKeywords))
	for _, kw := range cvKeywords {
		inCV[kw] = true
	}
	matched = make([]string, 0, len(jobKeywords))
	missing = make([]string, 0)
	for _, kw := range jobKeywords {
		if inCV[kw] {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}

func keywordScore(required, matched int) float64 {
	if required == 0 {
		return neutralKeywordScore
	}
	return math.Min(float64(matched)/float64(required)*100, 100)
}

func formatScore(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, header := range sectionHeaders {
		if strings.Contains(lower, header) {
			score += 15
		}
	}
	if emailPattern.MatchString(text) {
		score += 10
	}
	if phonePattern.MatchString(text) {
		score += 10
	}
	if yearPattern.MatchString(text) {
		score += 10
	}
	return math.Min(score, 100)
}

func contentScore(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	if quantifiablePattern.MatchString(lower) {
		score += 30
	}
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			score += 5
		}
	}
	if len(strings.Fields(text)) > minWordCount {
		score += 20
	}
	return math.Min(score, 100)
}

func feedback(overall float64) string {
	switch {
	case overall >= recommendationThreshold:
		return "Excellent! Your CV meets ATS requirements."
	case overall >= goodThreshold:
		return "Good CV, but could use some improvements for better ATS compatibility."
	default:
		return "CV needs significant improvements to pass ATS screening."
	}
}

func recommendations(overall float64, text string, missing []string) []string {
	recs := make([]string, 0)
	if overall >= recommendationThreshold {
		return recs
	}

	if len(missing) > 0 {
		shown := missing
		if len(shown) > maxMissingKeywords {
			shown = shown[:maxMissingKeywords]
		}
		recs = append(recs, "Add these keywords: "+strings.Join(shown, ", "))
	}
	if !metricPattern.MatchString(text) {
		recs = append(recs, "Add quantifiable achievements with numbers and percentages")
	}
	if !strings.Contains(strings.ToLower(text), "skills") {
		recs = append(recs, "Add a dedicated skills section")
	}
	if !emailPattern.MatchString(text) {
		recs = append(recs, "Ensure contact information is clearly visible")
	}
	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
