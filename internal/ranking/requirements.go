// Package ranking scores résumé content against a job description and reorders sections by relevance.
package ranking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/skills"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

var yearsPattern = regexp.MustCompile(`(?i)(\d+)[+\-\s]*years?\s+(?:of\s+)?experience`)

// AnalyzeJobDescription derives the job requirement profile from free-form job description text.
func AnalyzeJobDescription(jobDescription string) *types.JobRequirements {
	return &types.JobRequirements{
		Technologies:     skills.FindTechnologies(jobDescription),
		MinYears:         inferMinYears(jobDescription),
		Seniority:        inferSeniority(jobDescription),
		IndustryKeywords: skills.FindIndustryKeywords(jobDescription),
	}
}

// inferMinYears returns the largest "N years experience" figure in the text, or 0.
func inferMinYears(text string) int {
	years := 0
	for _, match := range yearsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(match[1]); err == nil && n > years {
			years = n
		}
	}
	return years
}

func inferSeniority(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "senior", "lead", "principal"):
		return types.SenioritySenior
	case containsAny(lower, "junior", "entry", "graduate"):
		return types.SeniorityJunior
	default:
		return types.SeniorityMid
	}
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
