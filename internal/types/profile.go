// Package types provides type definitions for structured data used throughout the cv generation system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// CandidateProfile is the structured résumé data threaded through the pipeline.
// JSON field names follow the form payload submitted by the frontend.
type CandidateProfile struct {
	PersonalDetails PersonalDetails  `json:"personalDetails"`
	Summary         string           `json:"summary,omitempty"`
	Education       []Education      `json:"education,omitempty"`
	WorkExperience  []WorkExperience `json:"workExperience,omitempty"`
	Projects        []Project        `json:"projects,omitempty"`
	Skills          []SkillGroup     `json:"skills,omitempty"`
	Certifications  []Certification  `json:"certifications,omitempty"`
	Achievements    []Achievement    `json:"achievements,omitempty"`
	References      []Reference      `json:"referees,omitempty"`
}

// PersonalDetails holds contact information rendered in the document header.
type PersonalDetails struct {
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	GitHub    string `json:"gitHub,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Institution       string `json:"institution"`
	Degree            string `json:"degree"`
	FieldOfStudy      string `json:"fieldOfStudy,omitempty"`
	Location          string `json:"location,omitempty"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate,omitempty"`
	CurrentlyStudying bool   `json:"currentlyStudying,omitempty"`
	Description       string `json:"description,omitempty"`
}

// WorkExperience is a single employment entry.
type WorkExperience struct {
	JobTitle         string `json:"jobTitle"`
	Company          string `json:"company"`
	Location         string `json:"location,omitempty"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate,omitempty"`
	CurrentlyWorking bool   `json:"currentlyWorking,omitempty"`
	Description      string `json:"description,omitempty"`
}

// Project is a single project entry. A blank end date means the project is ongoing.
type Project struct {
	Name             string   `json:"name"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate,omitempty"`
	CurrentlyWorking bool     `json:"currentlyWorking,omitempty"`
	Link             string   `json:"link,omitempty"`
	Description      string   `json:"description,omitempty"`
	Skills           []string `json:"skills,omitempty"`
}

// SkillGroup is a labelled list of technologies.
type SkillGroup struct {
	Category     string   `json:"category"`
	Technologies []string `json:"technologies"`
}

// Certification is a single certification entry.
type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Date   string `json:"date,omitempty"`
	Link   string `json:"link,omitempty"`
}

// Achievement is a single award or accomplishment.
type Achievement struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Reference is a referee listed at the end of the document.
type Reference struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Ongoing reports whether the entry has no end.
func (e Education) Ongoing() bool { return e.CurrentlyStudying }

// Ongoing reports whether the entry has no end.
func (w WorkExperience) Ongoing() bool { return w.CurrentlyWorking }

// Ongoing reports whether the project is still running. A blank end date counts as ongoing.
func (p Project) Ongoing() bool {
	return p.CurrentlyWorking || strings.TrimSpace(p.EndDate) == ""
}

// NonBlankTechnologies returns the group's technologies with blank entries removed.
func (g SkillGroup) NonBlankTechnologies() []string {
	out := make([]string, 0, len(g.Technologies))
	for _, tech := range g.Technologies {
		if strings.TrimSpace(tech) != "" {
			out = append(out, strings.TrimSpace(tech))
		}
	}
	return out
}

// Clone returns a deep copy so later stages never mutate an earlier stage's output.
func (p *CandidateProfile) Clone() *CandidateProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Education = cloneSlice(p.Education)
	out.WorkExperience = cloneSlice(p.WorkExperience)
	out.Projects = cloneSlice(p.Projects)
	for i := range out.Projects {
		out.Projects[i].Skills = cloneSlice(out.Projects[i].Skills)
	}
	out.Skills = cloneSlice(p.Skills)
	for i := range out.Skills {
		out.Skills[i].Technologies = cloneSlice(out.Skills[i].Technologies)
	}
	out.Certifications = cloneSlice(p.Certifications)
	out.Achievements = cloneSlice(p.Achievements)
	out.References = cloneSlice(p.References)
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
