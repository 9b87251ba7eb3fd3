package resume

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
	"github.com/devang9890/resume/pkg/metrics"
	"github.com/devang9890/resume/pkg/tracing"
)

type IngestOptions struct {
	MinTextLength int
	CallTimeout   time.Duration
	RetryBackoff  time.Duration
}

type IngestResumeUseCase struct {
	repo      resume.Repository
	extractor service.ResumeExtractor
	publisher service.EventPublisher
	opts      IngestOptions
	logger    logger.Logger
}

func NewIngestResumeUseCase(repo resume.Repository, extractor service.ResumeExtractor, publisher service.EventPublisher, opts IngestOptions, log logger.Logger) *IngestResumeUseCase {
	// Configuration may raise the floor, never lower it.
	if opts.MinTextLength < resume.MinRawTextLength {
		opts.MinTextLength = resume.MinRawTextLength
	}
	return &IngestResumeUseCase{
		repo:      repo,
		extractor: extractor,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

type IngestResumeInput struct {
	OwnerID uuid.UUID
	Title   string
	RawText string
}

type IngestResumeOutput struct {
	ResumeID uuid.UUID
	// Defects were repaired during normalization and did not stop the
	// document from being created.
	Defects []resume.Defect
}

func (uc *IngestResumeUseCase) Execute(ctx context.Context, input IngestResumeInput) (out *IngestResumeOutput, err error) {
	ctx, span := tracing.Start(ctx, "resume.Ingest")
	defer span.End()

	log := uc.logger.With(zap.String("owner_id", input.OwnerID.String()))
	run := newIngestRun(log)
	defer func() {
		if err != nil {
			run.fail(err)
			tracing.RecordError(span, err)
			metrics.ObserveIngestion(string(apperror.KindOf(err)))
			return
		}
		metrics.ObserveIngestion(metrics.OutcomeOK)
	}()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewInvalidInput("title is required", resume.ErrTitleRequired)
	}
	text := strings.TrimSpace(input.RawText)
	if utf8.RuneCountInString(text) < uc.opts.MinTextLength {
		details := fmt.Sprintf("resume text must be at least %d characters", uc.opts.MinTextLength)
		return nil, apperror.NewInvalidInput(details, nil).WithKind(apperror.KindInsufficientInput)
	}
	run.advance(StateValidatedInput)

	run.advance(StateExtracting)
	candidate, err := uc.extract(ctx, text, title, log)
	if err != nil {
		return nil, apperror.NewUpstream(apperror.KindOf(err), "resume extraction failed", err)
	}
	run.advance(StateExtracted)

	run.advance(StateNormalizing)
	frag, defects := resume.Validate(candidate, resume.ModeFull)
	if len(defects) > 0 {
		log.Warn("Extracted resume repaired during normalization", zap.Int("defects", len(defects)), zap.Any("details", defects))
	}
	now := time.Now().UTC()
	doc := resume.New(input.OwnerID, title, now)
	doc.Apply(frag, resume.ContentFields)
	// Only the asset transformer may set the image.
	doc.PersonalInfo.Image = ""
	run.advance(StateNormalized)

	run.advance(StatePersisting)
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, persistenceError("failed to create resume", err)
	}
	run.advance(StateCommitted)

	log.Info("Resume ingested", zap.String("resume_id", doc.ID.String()), zap.Int("defects", len(defects)))
	publishAsync(uc.publisher, uc.logger, resume.NewEvent(resume.EventCreated, doc, now))

	return &IngestResumeOutput{ResumeID: doc.ID, Defects: defects}, nil
}

// extract calls the extraction service, retrying once after a fixed
// backoff when the first attempt fails in transport.
func (uc *IngestResumeUseCase) extract(ctx context.Context, text, title string, log logger.Logger) (map[string]any, error) {
	candidate, err := uc.extractOnce(ctx, text, title)
	if err == nil || apperror.KindOf(err) != apperror.KindTransport || ctx.Err() != nil {
		return candidate, err
	}

	log.Warn("Extraction transport failure, retrying once", zap.Duration("backoff", uc.opts.RetryBackoff), zap.Error(err))
	timer := time.NewTimer(uc.opts.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, &service.ExtractionError{Kind: apperror.KindTransport, Message: "cancelled before retry", Err: ctx.Err()}
	case <-timer.C:
	}

	return uc.extractOnce(ctx, text, title)
}

func (uc *IngestResumeUseCase) extractOnce(ctx context.Context, text, title string) (map[string]any, error) {
	callCtx, cancel := withCallTimeout(ctx, uc.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	candidate, err := uc.extractor.Extract(callCtx, text, title)
	metrics.ObserveExtraction(time.Since(start))

	if err != nil && timedOut(ctx, callCtx) && apperror.KindOf(err) != apperror.KindTransport {
		return nil, &service.ExtractionError{Kind: apperror.KindTransport, Message: "extraction timed out", Err: err}
	}
	return candidate, err
}
