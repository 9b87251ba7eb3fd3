package resume

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
)

// memoryRepo is an owner-scoped in-memory resume.Repository. Stored
// documents are cloned on the way in and out.
type memoryRepo struct {
	mu         sync.Mutex
	docs       map[uuid.UUID]*resume.Resume
	createErr  error
	replaceErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{docs: make(map[uuid.UUID]*resume.Resume)}
}

func (r *memoryRepo) put(doc *resume.Resume) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc.Clone()
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *memoryRepo) stored(id uuid.UUID) *resume.Resume {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		return d.Clone()
	}
	return nil
}

func (r *memoryRepo) Create(ctx context.Context, doc *resume.Resume) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(doc)
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, resume.ErrResumeNotFound
	}
	return d.Clone(), nil
}

func (r *memoryRepo) FindPublicByID(ctx context.Context, id uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || !d.Public {
		return nil, resume.ErrResumeNotFound
	}
	return d.Clone(), nil
}

func (r *memoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*resume.Resume, 0)
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryRepo) Replace(ctx context.Context, doc *resume.Resume) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[doc.ID]
	if !ok || d.OwnerID != doc.OwnerID {
		return resume.ErrResumeNotFound
	}
	r.docs[doc.ID] = doc.Clone()
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, nil
	}
	delete(r.docs, id)
	return d, nil
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, rawText, titleHint string) (map[string]any, error) {
	args := m.Called(ctx, rawText, titleHint)
	candidate, _ := args.Get(0).(map[string]any)
	return candidate, args.Error(1)
}

type mockTransformer struct {
	mock.Mock
}

func (m *mockTransformer) Transform(ctx context.Context, file io.Reader, resumeID string, removeBackground bool) (*service.ProcessedImage, error) {
	args := m.Called(ctx, file, resumeID, removeBackground)
	img, _ := args.Get(0).(*service.ProcessedImage)
	return img, args.Error(1)
}

func (m *mockTransformer) Delete(ctx context.Context, assetID string) error {
	return m.Called(ctx, assetID).Error(0)
}

type fakeScanner struct {
	err error
}

func (s fakeScanner) Scan(ctx context.Context, file io.Reader) error {
	return s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []resume.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt resume.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) snapshot() []resume.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]resume.Event(nil), p.events...)
}

func (p *recordingPublisher) types() []resume.EventType {
	var out []resume.EventType
	for _, e := range p.snapshot() {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("connection reset by peer")

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
