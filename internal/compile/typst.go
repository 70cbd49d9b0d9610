// Package compile turns Typst markup into a PDF using the typst command line compiler.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultBinary is the compiler executable looked up on PATH
	DefaultBinary = "typst"
	// DefaultTimeout bounds one compilation
	DefaultTimeout = 30 * time.Second

	sourceName = "cv.typ"
	outputName = "cv.pdf"
)

// Artifact is a compiled document on local disk.
type Artifact struct {
	Path  string
	Size  int64
	Pages int
	Log   string
}

// Compiler renders markup to a PDF inside workDir.
type Compiler interface {
	Compile(ctx context.Context, markup string, workDir string) (*Artifact, error)
}

// TypstCompiler shells out to the typst CLI.
type TypstCompiler struct {
	Binary    string
	Timeout   time.Duration
	FontPaths []string
}

var _ Compiler = (*TypstCompiler)(nil)

// NewTypstCompiler returns a compiler using binary, or DefaultBinary when empty.
func NewTypstCompiler(binary string, timeout time.Duration) *TypstCompiler {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TypstCompiler{Binary: binary, Timeout: timeout}
}

// Compile writes markup to workDir, runs the compiler and checks that a non-empty PDF came out.
// Deadline expiry is reported as a CompilationError wrapping context.DeadlineExceeded.
func (c *TypstCompiler) Compile(ctx context.Context, markup string, workDir string) (*Artifact, error) {
	binPath, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, &CompilationError{
			Message: fmt.Sprintf("%s not found in PATH. Install the typst CLI", c.Binary),
			Cause:   err,
		}
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, &CompilationError{Message: fmt.Sprintf("failed to create working directory: %s", workDir), Cause: err}
	}

	sourcePath := filepath.Join(workDir, sourceName)
	outputPath := filepath.Join(workDir, outputName)
	if err := os.WriteFile(sourcePath, []byte(markup), 0o644); err != nil {
		return nil, &CompilationError{Message: "failed to write typst source", Cause: err}
	}
	// A stale PDF from an earlier iteration must not mask a failed run
	_ = os.Remove(outputPath)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"compile", "--root", workDir}
	for _, fontPath := range c.FontPaths {
		args = append(args, "--font-path", fontPath)
	}
	args = append(args, sourcePath, outputPath)

	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Dir = workDir
	cmd.WaitDelay = time.Second
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	logOutput := strings.TrimSpace(stdout.String() + stderr.String())

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &CompilationError{Message: "compiler did not finish in time", LogOutput: logOutput, Cause: ctxErr}
	}
	if runErr != nil {
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &CompilationError{Message: "typst reported errors", ExitCode: exitCode, LogOutput: logOutput, Cause: runErr}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, &CompilationError{Message: "PDF was not generated", LogOutput: logOutput, Cause: err}
	}
	if info.Size() == 0 {
		return nil, &CompilationError{Message: "PDF is empty", LogOutput: logOutput}
	}

	artifact := &Artifact{Path: outputPath, Size: info.Size(), Log: logOutput}
	if pages, err := CountPages(outputPath); err == nil {
		artifact.Pages = pages
	}
	return artifact, nil
}
