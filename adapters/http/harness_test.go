package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/devang9890/resume/internal/application/service"
	authUC "github.com/devang9890/resume/internal/application/usecase/auth"
	resumeUC "github.com/devang9890/resume/internal/application/usecase/resume"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/internal/domain/user"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
)

type memResumes struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*resume.Resume
}

func (r *memResumes) Create(ctx context.Context, doc *resume.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc.Clone()
	return nil
}

func (r *memResumes) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok && d.OwnerID == ownerID {
		return d.Clone(), nil
	}
	return nil, resume.ErrResumeNotFound
}

func (r *memResumes) FindPublicByID(ctx context.Context, id uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok && d.Public {
		return d.Clone(), nil
	}
	return nil, resume.ErrResumeNotFound
}

func (r *memResumes) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*resume.Resume
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memResumes) Replace(ctx context.Context, doc *resume.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[doc.ID]; ok && d.OwnerID == doc.OwnerID {
		r.docs[doc.ID] = doc.Clone()
		return nil
	}
	return resume.ErrResumeNotFound
}

func (r *memResumes) Delete(ctx context.Context, id, ownerID uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, nil
	}
	delete(r.docs, id)
	return d, nil
}

type memUsers struct {
	mu    sync.Mutex
	users []*user.User
}

func (r *memUsers) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.users = append(r.users, u)
	return nil
}

func (r *memUsers) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

type stubExtractor struct {
	candidate map[string]any
	err       error
}

func (s *stubExtractor) Extract(ctx context.Context, rawText, titleHint string) (map[string]any, error) {
	return s.candidate, s.err
}

type stubTransformer struct {
	mu      sync.Mutex
	calls   int
	removed bool
}

func (s *stubTransformer) Transform(ctx context.Context, file io.Reader, resumeID string, removeBackground bool) (*service.ProcessedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.removed = removeBackground
	return &service.ProcessedImage{URL: "https://res.cloudinary.com/demo/" + resumeID + ".png", AssetID: "user-resumes/" + resumeID}, nil
}

func (s *stubTransformer) Delete(ctx context.Context, assetID string) error {
	return nil
}

type stubEnhancer struct{}

func (stubEnhancer) Enhance(ctx context.Context, target service.EnhanceTarget, text string) (string, error) {
	return "Improved: " + text, nil
}

type stubPDF struct {
	text string
}

func (s stubPDF) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	if s.text == "" {
		return "", errors.New("no text layer")
	}
	return s.text, nil
}

type stubLimiter struct {
	allow bool
	err   error
}

func (s stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return s.allow, s.err
}

type testServer struct {
	router      *gin.Engine
	jwt         *auth.JWTService
	extractor   *stubExtractor
	transformer *stubTransformer
	resumes     *memResumes
}

type serverOption func(*RouterConfig)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNopLogger()
	resumes := &memResumes{docs: make(map[uuid.UUID]*resume.Resume)}
	users := &memUsers{}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	extractor := &stubExtractor{}
	transformer := &stubTransformer{}

	ingest := resumeUC.NewIngestResumeUseCase(resumes, extractor, nil, resumeUC.IngestOptions{
		MinTextLength: resume.MinRawTextLength,
		CallTimeout:   time.Second,
		RetryBackoff:  time.Millisecond,
	}, log)

	cfg := RouterConfig{
		AuthHandler: NewAuthHandler(
			authUC.NewRegisterUseCase(users, jwtSvc, log),
			authUC.NewLoginUseCase(users, jwtSvc, log),
			authUC.NewGetMeUseCase(users),
		),
		ResumeHandler: NewResumeHandler(
			resumeUC.NewCreateResumeUseCase(resumes, nil, log),
			resumeUC.NewListResumesUseCase(resumes),
			resumeUC.NewGetResumeUseCase(resumes),
			resumeUC.NewGetPublicResumeUseCase(resumes),
			resumeUC.NewUpdateResumeUseCase(resumes, transformer, nil, nil, resumeUC.UpdateOptions{AssetTimeout: time.Second}, log),
			resumeUC.NewDeleteResumeUseCase(resumes, nil, log),
		),
		AIHandler: NewAIHandler(
			ingest,
			resumeUC.NewIngestPDFUseCase(stubPDF{text: sampleText}, ingest),
			resumeUC.NewEnhanceTextUseCase(stubEnhancer{}, time.Second),
		),
		JWTService: jwtSvc,
		Logger:     log,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{
		router:      NewRouter(cfg),
		jwt:         jwtSvc,
		extractor:   extractor,
		transformer: transformer,
		resumes:     resumes,
	}
}

const sampleText = "Jane Doe, senior backend engineer at Acme Corp since 2019. Go, PostgreSQL, Kafka. BSc Computer Science."

func (s *testServer) tokenFor(t *testing.T, ownerID uuid.UUID) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(ownerID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}
