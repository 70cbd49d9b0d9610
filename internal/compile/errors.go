package compile

import "fmt"

// CompilationError represents a failed Typst compilation. LogOutput holds the compiler diagnostics.
type CompilationError struct {
	Message   string
	ExitCode  int
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("typst compilation error: %s", e.Message)
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.ExitCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
