package rendering

import (
	"testing"

	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRequiredSections_EmptyIsValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		format  func() (string, error)
	}{
		{"education", SectionEducation, func() (string, error) { return FormatEducation(nil) }},
		{"work", SectionWorkExperience, func() (string, error) { return FormatWorkExperience([]types.WorkExperience{}) }},
		{"projects", SectionProjects, func() (string, error) { return FormatProjects(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment, err := tt.format()
			require.Error(t, err)
			assert.Empty(t, fragment)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.section, validationErr.Section)
			assert.Empty(t, validationErr.Field)
			assert.Contains(t, err.Error(), string(tt.section))
		})
	}
}

func TestFormatOptionalSections_EmptyProducesNothing(t *testing.T) {
	tests := []struct {
		name   string
		format func() (string, error)
	}{
		{"skills", func() (string, error) { return FormatSkills(nil) }},
		{"certifications", func() (string, error) { return FormatCertifications(nil) }},
		{"achievements", func() (string, error) { return FormatAchievements([]types.Achievement{}) }},
		{"references", func() (string, error) { return FormatReferences(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment, err := tt.format()
			assert.NoError(t, err)
			assert.Empty(t, fragment)
		})
	}
}

func TestFormat_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		format  func() (string, error)
		section Section
		field   string
	}{
		{"education institution", func() (string, error) {
			return FormatEducation([]types.Education{{Degree: "BSc", StartDate: "2010-01"}})
		}, SectionEducation, "institution"},
		{"education degree", func() (string, error) {
			return FormatEducation([]types.Education{{Institution: "MIT", StartDate: "2010-01"}})
		}, SectionEducation, "degree"},
		{"education start", func() (string, error) {
			return FormatEducation([]types.Education{{Institution: "MIT", Degree: "BSc"}})
		}, SectionEducation, "startDate"},
		{"education end without currently studying", func() (string, error) {
			return FormatEducation([]types.Education{{Institution: "MIT", Degree: "BSc", StartDate: "2010-01"}})
		}, SectionEducation, "endDate"},
		{"work title", func() (string, error) {
			return FormatWorkExperience([]types.WorkExperience{{Company: "Acme", StartDate: "2020-01"}})
		}, SectionWorkExperience, "jobTitle"},
		{"work company", func() (string, error) {
			return FormatWorkExperience([]types.WorkExperience{{JobTitle: "Dev", StartDate: "2020-01"}})
		}, SectionWorkExperience, "company"},
		{"work end without currently working", func() (string, error) {
			return FormatWorkExperience([]types.WorkExperience{{JobTitle: "Dev", Company: "Co", StartDate: "2019-01"}})
		}, SectionWorkExperience, "endDate"},
		{"project start", func() (string, error) {
			return FormatProjects([]types.Project{{Name: "Tool"}})
		}, SectionProjects, "startDate"},
		{"skill technologies", func() (string, error) {
			return FormatSkills([]types.SkillGroup{{Category: "Tools", Technologies: []string{" ", ""}}})
		}, SectionSkills, "technologies"},
		{"skill category", func() (string, error) {
			return FormatSkills([]types.SkillGroup{{Technologies: []string{"Go"}}})
		}, SectionSkills, "category"},
		{"certification issuer", func() (string, error) {
			return FormatCertifications([]types.Certification{{Title: "CKA"}})
		}, SectionCertifications, "issuer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.format()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.section, validationErr.Section)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFormatEducation_Output(t *testing.T) {
	fragment, err := FormatEducation([]types.Education{{
		Institution:       "University of Colombo",
		Degree:            "BSc",
		FieldOfStudy:      "Computer Science",
		StartDate:         "2019-09",
		CurrentlyStudying: true,
		Description:       "Dean's list",
	}})
	require.NoError(t, err)

	assert.Contains(t, fragment, "== Education")
	assert.Contains(t, fragment, `institution: "University of Colombo",`)
	assert.Contains(t, fragment, `degree: "BSc (Computer Science)",`)
	assert.Contains(t, fragment, `dates: dates-helper(start-date: "Sep 2019", end-date: "Present"),`)
	assert.Contains(t, fragment, "  - Dean's list")
}

func TestFormatWorkExperience_Output(t *testing.T) {
	fragment, err := FormatWorkExperience([]types.WorkExperience{{
		JobTitle:    "Software Engineer",
		Company:     "Acme",
		StartDate:   "2019-01",
		EndDate:     "2021-06",
		Description: "- Built APIs\n- Cut costs by 20%",
	}})
	require.NoError(t, err)

	assert.Contains(t, fragment, "#work(")
	assert.Contains(t, fragment, `title: "Software Engineer",`)
	assert.Contains(t, fragment, `end-date: "Jun 2021"`)
	assert.Contains(t, fragment, "  - Built APIs\n  - Cut costs by 20%")
}

func TestFormatProjects_Output(t *testing.T) {
	fragment, err := FormatProjects([]types.Project{{
		Name:        "CV Builder",
		StartDate:   "2024-01",
		Link:        "https://github.com/x/cv",
		Description: "Generates résumés",
		Skills:      []string{"Go", "", "Typst"},
	}})
	require.NoError(t, err)

	assert.Contains(t, fragment, `end-date: "Present"`)
	assert.Contains(t, fragment, `url: "https://github.com/x/cv",`)
	assert.Contains(t, fragment, "  - *Skills*: Go, Typst")
}

func TestFormatSkills_Output(t *testing.T) {
	fragment, err := FormatSkills([]types.SkillGroup{
		{Category: "Languages", Technologies: []string{"Go", "C#"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "== Skills\n- *Languages*: Go, C\\#", fragment)
}

func TestFormatCertifications_Output(t *testing.T) {
	fragment, err := FormatCertifications([]types.Certification{
		{Title: "CKA", Issuer: "CNCF", Date: "2024-03"},
	})
	require.NoError(t, err)
	assert.Contains(t, fragment, `#certificates(`)
	assert.Contains(t, fragment, `date: "Mar 2024",`)
	assert.NotContains(t, fragment, "url:")
}

func TestFormatAchievementsAndReferences_Output(t *testing.T) {
	achievements, err := FormatAchievements([]types.Achievement{
		{Title: "Hackathon winner", Date: "2023-05", Description: "First of 40 teams"},
	})
	require.NoError(t, err)
	assert.Equal(t, "== Achievements\n- *Hackathon winner* (May 2023): First of 40 teams", achievements)

	refs, err := FormatReferences([]types.Reference{
		{Name: "Grace Hopper", Position: "Director", Company: "Navy", Email: "grace@navy.mil"},
	})
	require.NoError(t, err)
	assert.Equal(t, "== References\n- *Grace Hopper* | Director, Navy | grace\\@navy.mil", refs)
}

func TestFormatOverview(t *testing.T) {
	assert.Equal(t, "", FormatOverview("  "))
	assert.Equal(t, "== Overview\n\nBackend engineer.", FormatOverview(" Backend engineer. "))
}

func TestFormatOverview_EscapesLeadingMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"list marker", "- Backend engineer", `\- Backend engineer`},
		{"enum marker", "+ Backend engineer", `\+ Backend engineer`},
		{"heading marker", "= Backend engineer", `\= Backend engineer`},
		{"numbered item", "10. Backend engineer", `10\. Backend engineer`},
		{"number without dot", "10 years of Go", "10 years of Go"},
		{"inner dash untouched", "Go - Python", "Go - Python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "== Overview\n\n"+tt.expected, FormatOverview(tt.input))
		})
	}
}
