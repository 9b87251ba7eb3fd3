package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/pkg/apperror"
)

func TestUploadResume_CreatesDocument(t *testing.T) {
	s := newTestServer(t)
	s.extractor.candidate = map[string]any{
		"professional_summary": "Backend engineer",
		"skills":               []any{"Go", 3.0},
	}
	token := s.tokenFor(t, uuid.New())

	rr := s.do(t, http.MethodPost, "/api/ai/upload-resume", token, gin.H{"resumeText": sampleText, "title": "Imported"})

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decode(t, rr)
	id, _ := body["resume_id"].(string)
	require.NotEmpty(t, id)
	assert.Len(t, body["defects"], 1, "the numeric skill is reported, not fatal")

	rr = s.do(t, http.MethodGet, "/api/resumes/"+id, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := decode(t, rr)["resume"].(map[string]any)
	assert.Equal(t, "Imported", doc["title"])
	assert.Equal(t, []any{"Go"}, doc["skills"])
}

func TestUploadResume_FailureStatuses(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "too short", text: "too short", wantStatus: http.StatusBadRequest, wantKind: "InsufficientInput"},
		{
			name:       "transport",
			text:       sampleText,
			err:        &service.ExtractionError{Kind: apperror.KindTransport, Message: "connection refused"},
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "TransportError",
		},
		{
			name:       "malformed",
			text:       sampleText,
			err:        &service.ExtractionError{Kind: apperror.KindMalformedPayload, Message: "not json"},
			wantStatus: http.StatusBadGateway,
			wantKind:   "MalformedPayload",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.extractor.err = tt.err
			token := s.tokenFor(t, uuid.New())

			rr := s.do(t, http.MethodPost, "/api/ai/upload-resume", token, gin.H{"resumeText": tt.text, "title": "T"})

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decode(t, rr)
			assert.Equal(t, tt.wantKind, body["kind"])
			assert.NotContains(t, rr.Body.String(), "connection refused", "diagnostics stay in the logs")
		})
	}
}

func TestUploadResumePDF(t *testing.T) {
	s := newTestServer(t)
	s.extractor.candidate = map[string]any{"skills": []any{"Go"}}
	token := s.tokenFor(t, uuid.New())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "From PDF"))
	part, err := mw.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ai/upload-resume-pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := s.send(req, token)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotEmpty(t, decode(t, rr)["resume_id"])
}

func TestUploadResumePDF_MissingFile(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, uuid.New())

	rr := s.do(t, http.MethodPost, "/api/ai/upload-resume-pdf", token, gin.H{"title": "x"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEnhanceRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, uuid.New())

	rr := s.do(t, http.MethodPost, "/api/ai/enhance-pro-sum", token, gin.H{"userContent": "I code"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Improved: I code", decode(t, rr)["enhanced_content"])

	rr = s.do(t, http.MethodPost, "/api/ai/enhance-job-desc", token, gin.H{"userContent": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAIRoutes_RateLimited(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.AILimiter = stubLimiter{allow: false} })
	token := s.tokenFor(t, uuid.New())

	rr := s.do(t, http.MethodPost, "/api/ai/enhance-pro-sum", token, gin.H{"userContent": "I code"})

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "RateLimited", decode(t, rr)["kind"])
}

func TestAIRoutes_LimiterOutageFailsOpen(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.AILimiter = stubLimiter{err: errors.New("redis down")} })
	token := s.tokenFor(t, uuid.New())

	rr := s.do(t, http.MethodPost, "/api/ai/enhance-pro-sum", token, gin.H{"userContent": "I code"})

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.Health = map[string]HealthCheck{
			"postgres": func(ctx context.Context) error { return nil },
			"redis":    func(ctx context.Context) error { return errors.New("dial tcp: refused") },
		}
	})

	rr := s.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "DOWN", body["status"])
	assert.Equal(t, map[string]any{"postgres": "UP", "redis": "DOWN"}, body["dependencies"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/health", "", nil)

	rr := s.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "resume_http_requests_total")
}
