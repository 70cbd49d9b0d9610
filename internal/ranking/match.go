package ranking

import (
	"github.com/maheshdila/cv-gen-BE/internal/skills"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// MatchReport summarizes how a candidate's skills cover the required technologies.
type MatchReport struct {
	Percentage float64  `json:"matchPercentage"`
	Matched    []string `json:"matchedTechnologies"`
	Missing    []string `json:"missingTechnologies"`
}

// candidateTechnologies collects every skill and project tag the candidate lists.
func candidateTechnologies(profile *types.CandidateProfile) []string {
	var techs []string
	for _, group := range profile.Skills {
		techs = append(techs, group.NonBlankTechnologies()...)
	}
	for _, project := range profile.Projects {
		techs = append(techs, project.Skills...)
	}
	return techs
}

// Match compares the candidate's technologies with the job requirements.
// An empty requirement set yields a zero percentage.
func Match(profile *types.CandidateProfile, req *types.JobRequirements) *MatchReport {
	report := &MatchReport{Matched: []string{}, Missing: []string{}}
	if profile == nil || req == nil {
		return report
	}
	have := candidateTechnologies(profile)
	for _, tech := range req.Technologies {
		if skills.Matches(tech, have) {
			report.Matched = append(report.Matched, tech)
		} else {
			report.Missing = append(report.Missing, tech)
		}
	}
	report.Percentage = float64(len(report.Matched)) / float64(max(len(req.Technologies), 1)) * 100
	return report
}
