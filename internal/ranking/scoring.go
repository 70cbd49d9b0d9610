package ranking

import (
	"regexp"
	"strings"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/chronology"
	"github.com/maheshdila/cv-gen-BE/internal/skills"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// Score contributions per content type.
const (
	techMatchPoints         = 10
	ongoingProjectPoints    = 5
	linkPoints              = 3
	coreCategoryPoints      = 5
	certTechPoints          = 15
	certRecentPoints        = 10
	certModeratePoints      = 5
	achievementQuantPoints  = 8
	achievementRecentPoints = 5
	recentWindowYears       = 2
	moderateWindowYears     = 5
)

// QuantifiablePattern matches measurable outcomes such as "40%", "$200", "3x" or "reduced".
var QuantifiablePattern = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+x|increase|improve|reduce|save`)

var coreCategoryWords = []string{"programming", "framework", "language"}

// Scorer assigns non-negative relevance scores to résumé items. Scores are deterministic
// for a fixed clock.
type Scorer struct {
	Requirements *types.JobRequirements
	Now          func() time.Time
}

// NewScorer creates a Scorer using the wall clock.
func NewScorer(req *types.JobRequirements) *Scorer {
	if req == nil {
		req = &types.JobRequirements{}
	}
	return &Scorer{Requirements: req, Now: time.Now}
}

func (s *Scorer) required() []string {
	if s.Requirements == nil {
		return nil
	}
	return s.Requirements.Technologies
}

func (s *Scorer) yearsAgo(date string) (int, bool) {
	parsed, ok := chronology.ParseDate(date)
	if !ok {
		return 0, false
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().Year() - parsed.Year(), true
}

// ScoreProject awards matching skill tags, ongoing status and a link.
func (s *Scorer) ScoreProject(project types.Project) int {
	score := 0
	for _, tag := range project.Skills {
		if skills.Matches(tag, s.required()) {
			score += techMatchPoints
		}
	}
	if project.Ongoing() {
		score += ongoingProjectPoints
	}
	if strings.TrimSpace(project.Link) != "" {
		score += linkPoints
	}
	return score
}

// ScoreSkillGroup awards matching technologies and core categories such as languages.
func (s *Scorer) ScoreSkillGroup(group types.SkillGroup) int {
	score := 0
	for _, tech := range group.Technologies {
		if skills.Matches(tech, s.required()) {
			score += techMatchPoints
		}
	}
	if containsAny(strings.ToLower(group.Category), coreCategoryWords...) {
		score += coreCategoryPoints
	}
	return score
}

// ScoreCertification awards technology mentions in the title, recency and a link.
func (s *Scorer) ScoreCertification(cert types.Certification) int {
	score := 0
	for _, tech := range s.required() {
		if skills.Mentions(cert.Title, tech) {
			score += certTechPoints
		}
	}
	if age, ok := s.yearsAgo(cert.Date); ok {
		switch {
		case age <= recentWindowYears:
			score += certRecentPoints
		case age <= moderateWindowYears:
			score += certModeratePoints
		}
	}
	if strings.TrimSpace(cert.Link) != "" {
		score += linkPoints
	}
	return score
}

// ScoreAchievement awards technology mentions, quantifiable results and recency.
func (s *Scorer) ScoreAchievement(achievement types.Achievement) int {
	score := 0
	for _, tech := range s.required() {
		if skills.Mentions(achievement.Title, tech) || skills.Mentions(achievement.Description, tech) {
			score += techMatchPoints
		}
	}
	if QuantifiablePattern.MatchString(achievement.Description) {
		score += achievementQuantPoints
	}
	if age, ok := s.yearsAgo(achievement.Date); ok && age <= recentWindowYears {
		score += achievementRecentPoints
	}
	return score
}
