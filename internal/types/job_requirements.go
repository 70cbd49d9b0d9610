package types

// Seniority levels inferred from a job description.
const (
	SeniorityJunior = "junior"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
)

// JobRequirements is derived from a job description, never supplied by the user.
type JobRequirements struct {
	Technologies     []string `json:"requiredTechnologies"`
	MinYears         int      `json:"minYearsExperience"`
	Seniority        string   `json:"seniority"`
	IndustryKeywords []string `json:"industryKeywords"`
}
