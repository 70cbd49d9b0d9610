package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerateRequest is the payload accepted by the generation endpoint and CLI.
type GenerateRequest struct {
	JobDescription string           `json:"jobDescription"`
	JobURL         string           `json:"jobUrl,omitempty" validate:"omitempty,url"`
	FormData       CandidateProfile `json:"formData"`
}

// Validate checks the boundary schema of a generation request.
func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" && strings.TrimSpace(r.JobURL) == "" {
		return fmt.Errorf("jobDescription or jobUrl is required")
	}
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return nil
}

// ValidationMessages flattens validator errors into readable field messages.
func ValidationMessages(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", fieldErr.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return messages
}
