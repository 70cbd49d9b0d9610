// Package userstore keeps the generation queries users submit, keyed by email.
package userstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// DefaultHistoryLimit caps History when the caller passes no limit.
const DefaultHistoryLimit = 20

// Record is one saved query. CreatedAt orders the history of an email.
type Record struct {
	Email     string                `json:"email"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	RawInput  types.GenerateRequest `json:"rawInput"`
}

// Store persists records. Get returns nil, nil when the email has no record.
type Store interface {
	// Put saves rec as the latest record for its email and appends it to the history.
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, email string) (*Record, error)
	// Update replaces the raw input of the latest record, creating it when absent,
	// and returns the updated record.
	Update(ctx context.Context, email string, raw types.GenerateRequest, now time.Time) (*Record, error)
	// History returns saved records newest first.
	History(ctx context.Context, email string, limit int) ([]Record, error)
	Close() error
}

// StorageError is returned when the backing store fails.
type StorageError struct {
	Op    string
	Email string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("user store %s failed for %s: %v", e.Op, e.Email, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// InvalidEmailError is returned when a record has no usable email.
type InvalidEmailError struct {
	Email string
}

func (e *InvalidEmailError) Error() string {
	if e.Email == "" {
		return "email is required"
	}
	return fmt.Sprintf("invalid email address: %q", e.Email)
}

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail normalizes email and checks that it is well formed.
func ValidateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", &InvalidEmailError{}
	}
	if err := validator.New().Var(normalized, "email"); err != nil {
		return "", &InvalidEmailError{Email: email}
	}
	return normalized, nil
}

// NewRecord builds a record for req keyed by the email in its personal details.
func NewRecord(req *types.GenerateRequest, now time.Time) (*Record, error) {
	email, err := ValidateEmail(req.FormData.PersonalDetails.Email)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Record{
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
		RawInput:  *req,
	}, nil
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}
