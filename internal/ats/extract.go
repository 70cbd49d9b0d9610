package ats

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// TextExtractor reads the plain text of a compiled document.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// ExtractionError is returned when a document's text cannot be read.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// PDFTextExtractor extracts text from PDF files.
type PDFTextExtractor struct{}

var _ TextExtractor = PDFTextExtractor{}

func (PDFTextExtractor) ExtractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ExtractionError{Path: path, Cause: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Path: path, Cause: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ExtractionError{Path: path, Cause: err}
	}
	return buf.String(), nil
}

// ExtractReader extracts text from PDF bytes held in memory.
func ExtractReader(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", &ExtractionError{Path: "upload", Cause: fmt.Errorf("malformed PDF: %v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Path: "upload", Cause: err}
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Path: "upload", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ExtractionError{Path: "upload", Cause: err}
	}
	return buf.String(), nil
}
