package llm

import "fmt"

// MalformedOutputError reports model output that could not be parsed as structured data
// even after cleaning. Raw holds the cleaned text for diagnosis.
type MalformedOutputError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *MalformedOutputError) Error() string {
	msg := fmt.Sprintf("malformed model output: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s (raw: %s)", msg, truncate(e.Raw, maxRawInMessage))
	}
	return msg
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

const maxRawInMessage = 500

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// CallError reports a failed model call. Tier names the model tier that was asked.
type CallError struct {
	Tier    ModelTier
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	msg := e.Message
	if e.Tier != "" {
		msg = fmt.Sprintf("%s (%s model)", msg, e.Tier)
	}
	if e.Cause != nil {
		return fmt.Sprintf("LLM call failed: %s: %v", msg, e.Cause)
	}
	return "LLM call failed: " + msg
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// ErrNoClient is the CallError returned when a stage runs without a client.
func ErrNoClient() error {
	return &CallError{Message: "LLM client is required"}
}
