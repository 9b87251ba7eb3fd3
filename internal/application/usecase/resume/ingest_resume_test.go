package resume

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

const sampleResumeText = "Jane Doe. Senior backend engineer at Acme Corp from 2019 to present, " +
	"building payment APIs in Go and PostgreSQL. Previously interned at Initech. " +
	"Education: BSc Computer Science, University of Somewhere, 2018, GPA 3.8. Skills: Go, SQL, Kafka."

func newIngestUseCase(repo resume.Repository, ext service.ResumeExtractor, pub service.EventPublisher) *IngestResumeUseCase {
	return NewIngestResumeUseCase(repo, ext, pub, IngestOptions{
		MinTextLength: resume.MinRawTextLength,
		CallTimeout:   time.Second,
		RetryBackoff:  time.Millisecond,
	}, logger.NewNopLogger())
}

func validCandidate() map[string]any {
	return map[string]any{
		"professional_summary": "Backend engineer",
		"skills":               []any{"Go", "SQL"},
		"personal_info": map[string]any{
			"full_name": "Jane Doe",
			"image":     "https://evil.example/tracker.png",
		},
		"experience": []any{
			map[string]any{"company": "Acme Corp", "position": "Senior Engineer", "start_date": "2019", "is_current": true},
		},
		"education": []any{
			map[string]any{"institution": "University of Somewhere", "degree": "BSc", "gpa": "3.8"},
		},
	}
}

func transportErr() error {
	return &service.ExtractionError{Kind: apperror.KindTransport, Message: "connection refused"}
}

func TestIngest_Success(t *testing.T) {
	require.GreaterOrEqual(t, len(sampleResumeText), 200)
	repo := newMemoryRepo()
	ext := new(mockExtractor)
	pub := &recordingPublisher{}
	ext.On("Extract", mock.Anything, sampleResumeText, "My Resume").Return(validCandidate(), nil).Once()
	owner := uuid.New()

	out, err := newIngestUseCase(repo, ext, pub).Execute(context.Background(), IngestResumeInput{
		OwnerID: owner,
		Title:   "My Resume",
		RawText: sampleResumeText,
	})

	require.NoError(t, err)
	ext.AssertExpectations(t)
	assert.Empty(t, out.Defects)

	got, err := NewGetResumeUseCase(repo).Execute(context.Background(), GetResumeInput{OwnerID: owner, ResumeID: out.ResumeID})
	require.NoError(t, err)
	doc := got.Resume
	assert.Equal(t, "My Resume", doc.Title)
	assert.Len(t, doc.Experience, 1)
	assert.Len(t, doc.Education, 1)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Skills)
	assert.Equal(t, "Jane Doe", doc.PersonalInfo.FullName)
	assert.Empty(t, doc.PersonalInfo.Image, "extracted image URLs are never trusted")
	assert.Empty(t, doc.Projects)
	assert.NotNil(t, doc.Projects)
	assert.False(t, doc.Public)
	assert.Equal(t, resume.DefaultTemplate, doc.Template)

	assert.Eventually(t, func() bool {
		return len(pub.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []resume.EventType{resume.EventCreated}, pub.types())
}

func TestIngest_DefectsAreNotFatal(t *testing.T) {
	repo := newMemoryRepo()
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(map[string]any{
		"skills":     "Go, SQL",
		"experience": []any{"Acme 2019-2023", map[string]any{"company": "Initech"}},
		"unexpected": true,
	}, nil).Once()

	out, err := newIngestUseCase(repo, ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "Salvaged", RawText: sampleResumeText,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Defects)
	doc := repo.stored(out.ResumeID)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Skills)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Initech", doc.Experience[0].Company)
}

func TestIngest_ShortInputNeverCallsExtractor(t *testing.T) {
	repo := newMemoryRepo()
	ext := new(mockExtractor)

	_, err := newIngestUseCase(repo, ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: "too short",
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientInput, apperror.KindOf(err))
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, repo.count())
}

func TestIngest_PaddingDoesNotCount(t *testing.T) {
	ext := new(mockExtractor)

	_, err := newIngestUseCase(newMemoryRepo(), ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "T", RawText: "short" + strings.Repeat(" ", 100),
	})

	assert.Equal(t, apperror.KindInsufficientInput, apperror.KindOf(err))
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_TitleRequired(t *testing.T) {
	ext := new(mockExtractor)

	_, err := newIngestUseCase(newMemoryRepo(), ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "  ", RawText: sampleResumeText,
	})

	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_RetriesTransportExactlyOnce(t *testing.T) {
	repo := newMemoryRepo()
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, transportErr())

	_, err := newIngestUseCase(repo, ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	assert.Equal(t, 503, apperror.ToHTTPStatus(err))
	ext.AssertNumberOfCalls(t, "Extract", 2)
	assert.Equal(t, 0, repo.count())
}

func TestIngest_RecoversOnRetry(t *testing.T) {
	repo := newMemoryRepo()
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, transportErr()).Once()
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(validCandidate(), nil).Once()

	out, err := newIngestUseCase(repo, ext, nil).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
	})

	require.NoError(t, err)
	ext.AssertNumberOfCalls(t, "Extract", 2)
	assert.NotNil(t, repo.stored(out.ResumeID))
}

func TestIngest_LogicalFailuresAreNotRetried(t *testing.T) {
	kinds := []apperror.Kind{
		apperror.KindProvider,
		apperror.KindEmptyResponse,
		apperror.KindMalformedPayload,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			repo := newMemoryRepo()
			ext := new(mockExtractor)
			ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, &service.ExtractionError{Kind: kind, Status: 400, Message: "nope"})

			_, err := newIngestUseCase(repo, ext, nil).Execute(context.Background(), IngestResumeInput{
				OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
			})

			assert.Equal(t, kind, apperror.KindOf(err))
			assert.Equal(t, 502, apperror.ToHTTPStatus(err))
			ext.AssertNumberOfCalls(t, "Extract", 1)
			assert.Equal(t, 0, repo.count())
		})
	}
}

func TestIngest_CallTimeoutIsTransport(t *testing.T) {
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	uc := NewIngestResumeUseCase(newMemoryRepo(), ext, nil, IngestOptions{
		CallTimeout:  20 * time.Millisecond,
		RetryBackoff: time.Millisecond,
	}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
	})

	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	ext.AssertNumberOfCalls(t, "Extract", 2)
}

func TestIngest_CancelledCallerIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ext := new(mockExtractor)
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, transportErr())

	_, err := newIngestUseCase(newMemoryRepo(), ext, nil).Execute(ctx, IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
	})

	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	ext.AssertNumberOfCalls(t, "Extract", 1)
}

func TestIngest_PersistenceFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errStoreDown
	ext := new(mockExtractor)
	pub := &recordingPublisher{}
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(validCandidate(), nil)

	_, err := newIngestUseCase(repo, ext, pub).Execute(context.Background(), IngestResumeInput{
		OwnerID: uuid.New(), Title: "My Resume", RawText: sampleResumeText,
	})

	assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.Equal(t, 0, repo.count())
	assert.Never(t, func() bool { return len(pub.snapshot()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestIngestRun_RejectsSkippedStates(t *testing.T) {
	run := newIngestRun(logger.NewNopLogger())

	run.advance(StateExtracting)
	assert.Equal(t, StateReceived, run.state)

	run.advance(StateValidatedInput)
	assert.Equal(t, StateValidatedInput, run.state)

	run.fail(transportErr())
	assert.Equal(t, StateFailed, run.state)
}
