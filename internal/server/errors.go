// Package server provides the HTTP API of the CV generator.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/fetch"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/rendering"
	"github.com/maheshdila/cv-gen-BE/internal/storage"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

// maxDiagnosticInBody caps how much raw diagnostic text is echoed to clients.
const maxDiagnosticInBody = 2000

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested record does not exist
type ErrNotFound struct {
	What string
}

func (e *ErrNotFound) Error() string {
	return e.What + " not found"
}

// ErrForbidden indicates the caller may not access another user's records
type ErrForbidden struct {
	Email string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not allowed to access records of %s", e.Email)
}

// ErrUnavailable indicates an optional backend is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return e.Feature + " is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		notFound    *ErrNotFound
		forbidden   *ErrForbidden
		unavailable *ErrUnavailable
		badEmail    *userstore.InvalidEmailError
		storeErr    *userstore.StorageError
		render      *rendering.ValidationError
		malformed   *llm.MalformedOutputError
		callErr     *llm.CallError
		fetchErr    *fetch.Error
		pdfErr      *ats.ExtractionError
		uploadErr   *storage.UploadError
		credErr     *storage.CredentialsError
		stageErr    *pipeline.StageError
	)

	switch {
	case errors.As(err, &stageErr) && stageErr.Timeout():
		return http.StatusGatewayTimeout
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &badEmail), errors.As(err, &render), errors.As(err, &fetchErr), errors.As(err, &pdfErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable), errors.As(err, &storeErr), errors.As(err, &credErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &malformed), errors.As(err, &callErr), errors.As(err, &uploadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage renders err for the "error" field of a response, appending the raw
// diagnostic (unparseable model output, compiler log) of pipeline failures.
func errorMessage(err error) string {
	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		return err.Error()
	}
	diagnostic := strings.TrimSpace(stageErr.Diagnostic())
	if diagnostic == "" {
		return err.Error()
	}
	if len(diagnostic) > maxDiagnosticInBody {
		diagnostic = diagnostic[:maxDiagnosticInBody] + "..."
	}
	return err.Error() + "\n" + diagnostic
}
