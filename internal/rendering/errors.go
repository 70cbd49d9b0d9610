// Package rendering formats structured résumé data into Typst markup and assembles the document source.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing the header template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a required section that is empty, or an item missing a required field.
// Field is empty when the whole section is missing.
type ValidationError struct {
	Section Section
	Index   int
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s section is required but empty", e.Section)
	}
	return fmt.Sprintf("validation error: %s entry %d is missing %s", e.Section, e.Index+1, e.Field)
}
