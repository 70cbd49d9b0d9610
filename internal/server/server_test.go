package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/config"
	"github.com/maheshdila/cv-gen-BE/internal/llm"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/server/ratelimit"
	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []*types.GenerateRequest
	run   func(ctx context.Context, req *types.GenerateRequest, onProgress pipeline.ProgressCallback) (*pipeline.Result, error)
}

func (g *fakeGenerator) Run(ctx context.Context, req *types.GenerateRequest, onProgress pipeline.ProgressCallback) (*pipeline.Result, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.run != nil {
		return g.run(ctx, req, onProgress)
	}
	return sampleResult(), nil
}

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		RunID:      "run-1",
		Message:    "CV generated",
		URL:        "https://cv-bucket.s3.amazonaws.com/cvs/demo.pdf?X-Amz-Signature=abc",
		Bucket:     "cv-bucket",
		Key:        "cvs/demo_20260101_000000_run-1.pdf",
		Pages:      1,
		Outcome:    pipeline.OutcomeScoreReached,
		Iterations: 2,
		ATS: &ats.Report{
			Overall:         88.5,
			Recommendations: []string{"Add Kubernetes"},
		},
	}
}

type failingStore struct {
	userstore.Store
}

func (failingStore) Put(context.Context, *userstore.Record) error {
	return &userstore.StorageError{Op: "put", Email: "x", Cause: errors.New("connection refused")}
}

func (failingStore) Close() error { return nil }

const requestBody = `{
	"jobDescription": "Senior Go engineer with Kubernetes and AWS",
	"formData": {
		"personalDetails": {"fullName": "Ada Lovelace", "email": "ada@example.com"},
		"workExperience": [{"company": "Analytical Engines", "jobTitle": "Engineer", "startDate": "2020-01"}]
	}
}`

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Generator == nil {
		deps.Generator = &fakeGenerator{}
	}
	s, err := New(Config{Port: 0}, deps)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func bearer(t *testing.T, service *JWTService, email string) map[string]string {
	t.Helper()
	token, err := service.GenerateToken(email)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := do(t, s, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["userStore"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := do(t, s, http.MethodOptions, "/generate-cv", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestGenerate_Success(t *testing.T) {
	store := userstore.NewMemoryStore()
	gen := &fakeGenerator{}
	s := newTestServer(t, Deps{Generator: gen, Store: store})

	rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "CV generated", body["message"])
	assert.Equal(t, "cvs/demo_20260101_000000_run-1.pdf", body["key"])
	assert.Equal(t, 88.5, body["atsScore"])
	assert.Equal(t, []any{"Add Kubernetes"}, body["recommendations"])
	assert.Equal(t, "score_reached", body["outcome"])
	assert.EqualValues(t, 2, body["iterations"])
	assert.Contains(t, body, "processingTimeMs")

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "Ada Lovelace", gen.calls[0].FormData.PersonalDetails.FullName)

	saved, err := store.Get(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Senior Go engineer with Kubernetes and AWS", saved.RawInput.JobDescription)
}

func TestGenerate_WithoutScoreOmitsATSFields(t *testing.T) {
	gen := &fakeGenerator{run: func(context.Context, *types.GenerateRequest, pipeline.ProgressCallback) (*pipeline.Result, error) {
		return &pipeline.Result{Message: "done", Key: "k", URL: "u", Outcome: pipeline.OutcomeCompleted, Iterations: 1}, nil
	}}
	s := newTestServer(t, Deps{Generator: gen})

	rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "atsScore")
	assert.NotContains(t, body, "recommendations")
	assert.Equal(t, "completed", body["outcome"])
}

func TestGenerate_StoreFailureDoesNotFailRun(t *testing.T) {
	s := newTestServer(t, Deps{Store: failingStore{}})

	rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"jobDescription":`, "invalid JSON body"},
		{"no job description", `{"formData":{"personalDetails":{"fullName":"A","email":"a@b.co"}}}`, "jobDescription or jobUrl is required"},
		{"bad email", `{"jobDescription":"x","formData":{"personalDetails":{"fullName":"A","email":"nope"}}}`, "valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/generate-cv", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["error"], tt.want)
		})
	}
}

func TestGenerate_StageFailureCarriesDiagnostic(t *testing.T) {
	gen := &fakeGenerator{run: func(context.Context, *types.GenerateRequest, pipeline.ProgressCallback) (*pipeline.Result, error) {
		return nil, &pipeline.StageError{
			Stage: pipeline.StageExtract,
			Err:   &llm.MalformedOutputError{Message: "not JSON", Raw: "I cannot do that"},
		}
	}}
	s := newTestServer(t, Deps{Generator: gen})

	rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body, 1)
	msg := body["error"].(string)
	assert.Contains(t, msg, "extract stage failed")
	assert.Contains(t, msg, "I cannot do that")
}

func TestGenerate_Timeout(t *testing.T) {
	gen := &fakeGenerator{run: func(context.Context, *types.GenerateRequest, pipeline.ProgressCallback) (*pipeline.Result, error) {
		return nil, &pipeline.StageError{Stage: pipeline.StageCompile, Iteration: 1, Err: context.DeadlineExceeded}
	}}
	s := newTestServer(t, Deps{Generator: gen})

	rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestGenerateStream(t *testing.T) {
	gen := &fakeGenerator{run: func(_ context.Context, _ *types.GenerateRequest, onProgress pipeline.ProgressCallback) (*pipeline.Result, error) {
		onProgress(pipeline.ProgressEvent{Step: "extract", Category: pipeline.CategoryContent, Message: "Extracted candidate profile"})
		onProgress(pipeline.ProgressEvent{Step: "score", Category: pipeline.CategoryScoring, Message: "Scored", Iteration: 1})
		return sampleResult(), nil
	}}
	s := newTestServer(t, Deps{Generator: gen})

	rec := do(t, s, http.MethodPost, "/generate-cv/stream", requestBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Equal(t, 2, strings.Count(out, "event: progress\n"))
	assert.Contains(t, out, `"message":"Extracted candidate profile"`)
	assert.Contains(t, out, "event: complete\n")
	assert.Contains(t, out, `"outcome":"score_reached"`)
	assert.Less(t, strings.Index(out, "event: progress"), strings.Index(out, "event: complete"))
}

func TestGenerateStream_Error(t *testing.T) {
	gen := &fakeGenerator{run: func(context.Context, *types.GenerateRequest, pipeline.ProgressCallback) (*pipeline.Result, error) {
		return nil, &pipeline.StageError{Stage: pipeline.StageUpload, Err: errors.New("bucket missing")}
	}}
	s := newTestServer(t, Deps{Generator: gen})

	rec := do(t, s, http.MethodPost, "/generate-cv/stream", requestBody, nil)
	out := rec.Body.String()
	assert.Contains(t, out, "event: error\n")
	assert.Contains(t, out, "upload stage failed: bucket missing")
	assert.NotContains(t, out, "event: complete")
}

func TestQueries_Unavailable(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := do(t, s, http.MethodGet, "/queries-get?email=ada@example.com", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "user store is not configured", decodeBody(t, rec)["error"])
}

func TestQueries_Lifecycle(t *testing.T) {
	s := newTestServer(t, Deps{Store: userstore.NewMemoryStore()})

	rec := do(t, s, http.MethodGet, "/queries-get?email=ada@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/queries-save", requestBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decodeBody(t, rec)["record"].(map[string]any)
	assert.Equal(t, "ada@example.com", saved["email"])
	assert.Equal(t, "2026-01-02T03:04:05Z", saved["createdAt"])

	rec = do(t, s, http.MethodGet, "/queries-get?email=ADA@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "ada@example.com", got["email"])

	update := `{"email":"ada@example.com","rawInput":{"jobDescription":"Staff engineer","formData":{"personalDetails":{"fullName":"Ada Lovelace","email":"ada@example.com"}}}}`
	rec = do(t, s, http.MethodPut, "/query-update", update, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["record"].(map[string]any)
	assert.Equal(t, "Staff engineer", updated["rawInput"].(map[string]any)["jobDescription"])

	rec = do(t, s, http.MethodGet, "/queries-history?email=ada@example.com&limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody(t, rec)
	assert.EqualValues(t, 1, history["count"])
}

func TestQueries_BadInput(t *testing.T) {
	s := newTestServer(t, Deps{Store: userstore.NewMemoryStore()})

	rec := do(t, s, http.MethodGet, "/queries-get?email=not-an-email", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodGet, "/queries-history?email=ada@example.com&limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/queries-save", `{"jobDescription":"x","formData":{}}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "email is required", decodeBody(t, rec)["error"])
}

func TestQueries_StoreFailure(t *testing.T) {
	s := newTestServer(t, Deps{Store: failingStore{}})

	rec := do(t, s, http.MethodPost, "/queries-save", requestBody, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "connection refused")
}

func TestAuth(t *testing.T) {
	jwtService := setupTestJWTService(t)
	s := newTestServer(t, Deps{JWT: jwtService, Store: userstore.NewMemoryStore()})

	t.Run("health stays open", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("token of another user", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, bearer(t, jwtService, "eve@example.com"))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = do(t, s, http.MethodGet, "/queries-history?email=ada@example.com", "", bearer(t, jwtService, "eve@example.com"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/generate-cv", requestBody, bearer(t, jwtService, "Ada@Example.com"))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("me", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/me", "", bearer(t, jwtService, "ada@example.com"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada@example.com", decodeBody(t, rec)["email"])
	})
}

func TestMe_WithoutAuth(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := do(t, s, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/queries-get", Method: http.MethodGet, Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	s := newTestServer(t, Deps{Store: userstore.NewMemoryStore(), RateLimiter: limiter})

	first := do(t, s, http.MethodGet, "/queries-get?email=ada@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do(t, s, http.MethodGet, "/queries-get?email=ada@example.com", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	health := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ats-score", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestATSScore_Validation(t *testing.T) {
	s := newTestServer(t, Deps{})

	tests := []struct {
		name   string
		req    *http.Request
		status int
		want   string
	}{
		{
			name:   "not multipart",
			req:    httptest.NewRequest(http.MethodPost, "/ats-score", strings.NewReader("{}")),
			status: http.StatusBadRequest,
			want:   "invalid multipart form",
		},
		{
			name:   "missing job description",
			req:    multipartRequest(t, nil, "cv.pdf", []byte("%PDF-1.4")),
			status: http.StatusBadRequest,
			want:   "jobDescription",
		},
		{
			name:   "missing file",
			req:    multipartRequest(t, map[string]string{"jobDescription": "Go developer"}, "", nil),
			status: http.StatusBadRequest,
			want:   "a PDF file is required",
		},
		{
			name:   "unreadable pdf",
			req:    multipartRequest(t, map[string]string{"jobDescription": "Go developer"}, "cv.pdf", []byte("definitely not a pdf")),
			status: http.StatusUnprocessableEntity,
			want:   "failed to extract text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, decodeBody(t, rec)["error"], tt.want)
		})
	}
}
