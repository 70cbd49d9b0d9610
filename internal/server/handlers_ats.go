package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
)

// maxUploadSize bounds the multipart body of /ats-score.
const maxUploadSize = 10 << 20

// handleATSScore scores an uploaded PDF against a job description.
func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.fail(w, r, &ErrValidation{Message: "invalid multipart form: " + err.Error()})
		return
	}

	jobDescription := strings.TrimSpace(r.FormValue("jobDescription"))
	if jobDescription == "" {
		s.fail(w, r, &ErrValidation{Field: "jobDescription", Message: "is required"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "file", Message: "a PDF file is required"})
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "file", Message: err.Error()})
		return
	}

	text, err := ats.ExtractReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report := ats.Score(text, jobDescription)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"filename": header.Filename,
		"report":   report,
	})
}
