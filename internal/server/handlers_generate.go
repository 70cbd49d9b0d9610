package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maheshdila/cv-gen-BE/internal/logging"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

// GenerateResponse is the flat success body of a generation run.
type GenerateResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	URL              string   `json:"url"`
	Bucket           string   `json:"bucket,omitempty"`
	Key              string   `json:"key"`
	Pages            int      `json:"pages,omitempty"`
	ATSScore         *float64 `json:"atsScore,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
	Iterations       int      `json:"iterations"`
	Outcome          string   `json:"outcome"`
	RunID            string   `json:"runId"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

func newGenerateResponse(result *pipeline.Result, elapsed time.Duration) GenerateResponse {
	resp := GenerateResponse{
		Success:          true,
		Message:          result.Message,
		URL:              result.URL,
		Bucket:           result.Bucket,
		Key:              result.Key,
		Pages:            result.Pages,
		Iterations:       result.Iterations,
		Outcome:          string(result.Outcome),
		RunID:            result.RunID,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
	if result.ATS != nil {
		score := result.ATS.Overall
		resp.ATSScore = &score
		resp.Recommendations = result.ATS.Recommendations
	}
	return resp
}

// decodeGenerateRequest reads and validates a generation request.
func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*types.GenerateRequest, error) {
	var req types.GenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, &ErrValidation{Message: strings.Join(types.ValidationMessages(err), "; ")}
	}
	if err := s.authorize(r, req.FormData.PersonalDetails.Email); err != nil {
		return nil, err
	}
	return &req, nil
}

// generate runs the pipeline and, when a store is configured, saves the query alongside it.
// The record write is best effort: its failure is logged and never fails the run.
func (s *Server) generate(ctx context.Context, req *types.GenerateRequest, onProgress pipeline.ProgressCallback) (*pipeline.Result, error) {
	var (
		g      errgroup.Group
		result *pipeline.Result
	)
	g.Go(func() error {
		var err error
		result, err = s.generator.Run(ctx, req, onProgress)
		return err
	})
	if s.store != nil {
		g.Go(func() error {
			s.saveQuietly(ctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) saveQuietly(ctx context.Context, req *types.GenerateRequest) {
	log := logging.FromContext(ctx)
	rec, err := userstore.NewRecord(req, s.now())
	if err != nil {
		log.Warn("skipping query record", "error", err)
		return
	}
	if err := s.store.Put(ctx, rec); err != nil {
		log.Warn("failed to save query record", "email", rec.Email, "error", err)
	}
}

// handleGenerate runs a generation request synchronously.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.generate(r.Context(), req, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newGenerateResponse(result, time.Since(start)))
}

// handleGenerateStream runs a generation request and streams progress as SSE.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log := logging.FromContext(r.Context())
	onProgress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(eventProgress, event); err != nil {
			log.Debug("dropping progress event", "step", event.Step, "error", err)
		}
	}

	result, err := s.generate(r.Context(), req, onProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("client disconnected during generation")
			return
		}
		log.Error("streamed generation failed", "status", HTTPStatus(err), "error", err)
		sse.WriteError(errorMessage(err))
		return
	}
	sse.WriteComplete(newGenerateResponse(result, time.Since(start)))
}
