package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateProfile_UnmarshalFormPayload(t *testing.T) {
	payload := `{
		"personalDetails": {"fullName": "Ada Lovelace", "email": "ada@example.com", "gitHub": "ada", "linkedIn": "ada-l"},
		"workExperience": [{"jobTitle": "Engineer", "company": "Analytical Engines", "startDate": "2023-01", "currentlyWorking": true}],
		"projects": [{"name": "Difference", "startDate": "2022-02", "skills": ["python"]}],
		"skills": [{"category": "Languages", "technologies": ["Go", "Python"]}],
		"referees": [{"name": "Charles", "position": "Mentor"}]
	}`

	var profile CandidateProfile
	require.NoError(t, json.Unmarshal([]byte(payload), &profile))

	assert.Equal(t, "Ada Lovelace", profile.PersonalDetails.FullName)
	assert.Equal(t, "ada", profile.PersonalDetails.GitHub)
	require.Len(t, profile.WorkExperience, 1)
	assert.True(t, profile.WorkExperience[0].Ongoing())
	require.Len(t, profile.References, 1)
	assert.Equal(t, "Mentor", profile.References[0].Position)
}

func TestProject_Ongoing(t *testing.T) {
	assert.True(t, Project{Name: "a", EndDate: ""}.Ongoing())
	assert.True(t, Project{Name: "a", EndDate: "   "}.Ongoing())
	assert.True(t, Project{Name: "a", EndDate: "2020-01", CurrentlyWorking: true}.Ongoing())
	assert.False(t, Project{Name: "a", EndDate: "2020-01"}.Ongoing())
}

func TestSkillGroup_NonBlankTechnologies(t *testing.T) {
	group := SkillGroup{Category: "Tools", Technologies: []string{"Docker", " ", "", " Git "}}
	assert.Equal(t, []string{"Docker", "Git"}, group.NonBlankTechnologies())
}

func TestCandidateProfile_CloneIsDeep(t *testing.T) {
	original := &CandidateProfile{
		Projects: []Project{{Name: "p", Skills: []string{"go"}}},
		Skills:   []SkillGroup{{Category: "c", Technologies: []string{"aws"}}},
	}

	clone := original.Clone()
	clone.Projects[0].Skills[0] = "rust"
	clone.Skills[0].Technologies[0] = "gcp"
	clone.Projects = append(clone.Projects, Project{Name: "q"})

	assert.Equal(t, "go", original.Projects[0].Skills[0])
	assert.Equal(t, "aws", original.Skills[0].Technologies[0])
	assert.Len(t, original.Projects, 1)
}

func TestCandidateProfile_CloneNil(t *testing.T) {
	var profile *CandidateProfile
	assert.Nil(t, profile.Clone())
}
