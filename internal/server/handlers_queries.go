package server

import (
	"net/http"
	"strconv"

	"github.com/maheshdila/cv-gen-BE/internal/server/middleware"
	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

// UpdateQueryRequest is the body of PUT /query-update.
type UpdateQueryRequest struct {
	Email    string                `json:"email"`
	RawInput types.GenerateRequest `json:"rawInput"`
}

// authorize checks that the token subject owns email. It is a no-op without JWT auth.
func (s *Server) authorize(r *http.Request, email string) error {
	if s.jwtService == nil {
		return nil
	}
	subject, err := middleware.GetSubject(r)
	if err != nil {
		return &ErrForbidden{Email: email}
	}
	if userstore.NormalizeEmail(subject) != userstore.NormalizeEmail(email) {
		return &ErrForbidden{Email: email}
	}
	return nil
}

// requireStore returns ErrUnavailable when no record store is configured.
func (s *Server) requireStore() error {
	if s.store == nil {
		return &ErrUnavailable{Feature: "user store"}
	}
	return nil
}

// emailParam validates the email query parameter and checks ownership.
func (s *Server) emailParam(r *http.Request) (string, error) {
	email, err := userstore.ValidateEmail(r.URL.Query().Get("email"))
	if err != nil {
		return "", err
	}
	if err := s.authorize(r, email); err != nil {
		return "", err
	}
	return email, nil
}

// handleSaveQuery stores a query as the latest record of its email.
func (s *Server) handleSaveQuery(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.GenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := userstore.NewRecord(&req, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.authorize(r, rec.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "query saved",
		"record":  rec,
	})
}

// handleGetQuery returns the latest record of an email.
func (s *Server) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}
	email, err := s.emailParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.Get(r.Context(), email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rec == nil {
		s.fail(w, r, &ErrNotFound{What: "record for " + email})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateQuery replaces the raw input of the latest record of an email.
func (s *Server) handleUpdateQuery(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}

	var req UpdateQueryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	email, err := userstore.ValidateEmail(req.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.authorize(r, email); err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.Update(r.Context(), email, req.RawInput, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "query updated",
		"record":  rec,
	})
}

// handleQueryHistory lists the saved records of an email, newest first.
func (s *Server) handleQueryHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}
	email, err := s.emailParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
	}

	records, err := s.store.History(r.Context(), email, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if records == nil {
		records = []userstore.Record{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"email":   email,
		"count":   len(records),
		"records": records,
	})
}
