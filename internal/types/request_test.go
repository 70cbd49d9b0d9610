package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *GenerateRequest {
	return &GenerateRequest{
		JobDescription: "Senior Python engineer with AWS",
		FormData: CandidateProfile{
			PersonalDetails: PersonalDetails{FullName: "Ada Lovelace", Email: "ada@example.com"},
		},
	}
}

func TestGenerateRequest_Validate_Valid(t *testing.T) {
	assert.NoError(t, validRequest().Validate())
}

func TestGenerateRequest_Validate_JobURLOnly(t *testing.T) {
	req := validRequest()
	req.JobDescription = ""
	req.JobURL = "https://jobs.example.com/123"
	assert.NoError(t, req.Validate())
}

func TestGenerateRequest_Validate_MissingJob(t *testing.T) {
	req := validRequest()
	req.JobDescription = "  "
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobDescription")
}

func TestGenerateRequest_Validate_MissingName(t *testing.T) {
	req := validRequest()
	req.FormData.PersonalDetails.FullName = ""
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, ValidationMessages(err), "FullName is required")
}

func TestGenerateRequest_Validate_BadEmail(t *testing.T) {
	req := validRequest()
	req.FormData.PersonalDetails.Email = "not-an-email"
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, ValidationMessages(err), "Email must be a valid email address")
}

func TestValidationMessages_PlainError(t *testing.T) {
	req := validRequest()
	req.JobDescription = ""
	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{err.Error()}, ValidationMessages(err))
}
