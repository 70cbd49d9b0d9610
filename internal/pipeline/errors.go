package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/maheshdila/cv-gen-BE/internal/compile"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
)

// Stage names one step of a generation run.
type Stage string

// Stages in execution order.
const (
	StageFetch    Stage = "fetch"
	StageAnalyze  Stage = "analyze"
	StageExtract  Stage = "extract"
	StageOptimize Stage = "optimize"
	StageOverview Stage = "overview"
	StageReorder  Stage = "reorder"
	StageRender   Stage = "render"
	StageCompile  Stage = "compile"
	StageUpload   Stage = "upload"
	StageScore    Stage = "score"
	StageDone     Stage = "done"
)

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage     Stage
	Iteration int
	Err       error
}

func (e *StageError) Error() string {
	if e.Iteration > 0 {
		return fmt.Sprintf("%s stage failed (iteration %d): %v", e.Stage, e.Iteration, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the stage failed because its deadline expired.
func (e *StageError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Diagnostic returns the raw model output or compiler log attached to the failure, if any.
func (e *StageError) Diagnostic() string {
	var malformed *llm.MalformedOutputError
	if errors.As(e.Err, &malformed) {
		return malformed.Raw
	}
	var compErr *compile.CompilationError
	if errors.As(e.Err, &compErr) {
		return compErr.LogOutput
	}
	return ""
}

func stageError(stage Stage, iteration int, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Iteration: iteration, Err: err}
}
