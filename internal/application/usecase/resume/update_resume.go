package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
	"github.com/devang9890/resume/pkg/metrics"
	"github.com/devang9890/resume/pkg/tracing"
)

// MaxImageBytes bounds an uploaded profile photo.
const MaxImageBytes = 5 << 20

type UpdateOptions struct {
	AssetTimeout time.Duration
}

type UpdateResumeUseCase struct {
	repo        resume.Repository
	transformer service.ImageTransformer
	scanner     service.ImageScanner
	publisher   service.EventPublisher
	opts        UpdateOptions
	logger      logger.Logger
}

// NewUpdateResumeUseCase wires the update flow. scanner may be nil.
func NewUpdateResumeUseCase(repo resume.Repository, transformer service.ImageTransformer, scanner service.ImageScanner, publisher service.EventPublisher, opts UpdateOptions, log logger.Logger) *UpdateResumeUseCase {
	return &UpdateResumeUseCase{
		repo:        repo,
		transformer: transformer,
		scanner:     scanner,
		publisher:   publisher,
		opts:        opts,
		logger:      log,
	}
}

type ImageUpload struct {
	File             io.Reader
	RemoveBackground bool
}

type UpdateResumeInput struct {
	OwnerID  uuid.UUID
	ResumeID uuid.UUID
	// Patch holds replacement values keyed by top-level field name.
	Patch map[string]any
	Image *ImageUpload
}

type UpdateResumeOutput struct {
	Resume *resume.Resume
	// Defects found in fields the patch did not touch. They were left as
	// stored.
	Defects []resume.Defect
}

func (uc *UpdateResumeUseCase) Execute(ctx context.Context, input UpdateResumeInput) (out *UpdateResumeOutput, err error) {
	ctx, span := tracing.Start(ctx, "resume.Update")
	defer span.End()
	defer func() {
		if err != nil {
			tracing.RecordError(span, err)
			metrics.ObserveUpdate(string(apperror.KindOf(err)))
			return
		}
		metrics.ObserveUpdate(metrics.OutcomeOK)
	}()

	log := uc.logger.With(zap.String("resume_id", input.ResumeID.String()), zap.String("owner_id", input.OwnerID.String()))

	existing, err := uc.repo.FindByID(ctx, input.ResumeID, input.OwnerID)
	if err != nil {
		if errors.Is(err, resume.ErrResumeNotFound) {
			return nil, notFound(input.ResumeID)
		}
		return nil, persistenceError("failed to load resume", err)
	}

	var processed *service.ProcessedImage
	if input.Image != nil {
		processed, err = uc.processImage(ctx, existing.ID, input.Image)
		if err != nil {
			return nil, err
		}
	}
	// Any exit without a commit below leaves the new asset unreferenced.
	committed := false
	defer func() {
		if !committed && processed != nil {
			discardAsset(uc.transformer, log, processed.AssetID)
		}
	}()

	current, err := existing.ContentMap()
	if err != nil {
		return nil, apperror.NewInternal("failed to encode stored resume", err)
	}
	merged, touched := resume.MergeFields(current, input.Patch)
	frag, defects := resume.Validate(merged, resume.ModePartial)

	fatal, other := resume.PartitionDefects(defects, touched)
	if len(fatal) > 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("%d field(s) failed validation", len(fatal)), nil).
			WithKind(apperror.KindValidation).
			WithPayload(fatal)
	}
	if len(other) > 0 {
		log.Warn("Stored resume has defects in untouched fields", zap.Any("details", other))
	}

	updated := existing.Clone()
	updated.Apply(frag, touched)
	applyImagePolicy(existing, updated, processed)
	updated.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Replace(ctx, updated); err != nil {
		if errors.Is(err, resume.ErrResumeNotFound) {
			return nil, notFound(input.ResumeID)
		}
		return nil, persistenceError("failed to save resume", err)
	}
	committed = true

	events := []resume.Event{resume.NewEvent(resume.EventUpdated, updated, updated.UpdatedAt)}
	if old := existing.ImageAssetID; old != "" && old != updated.ImageAssetID {
		evt := resume.NewEvent(resume.EventImageReplaced, updated, updated.UpdatedAt)
		evt.AssetID = old
		events = append(events, evt)
	}
	publishAsync(uc.publisher, uc.logger, events...)

	log.Info("Resume updated", zap.Int("touched", len(touched)), zap.Bool("image", processed != nil))
	return &UpdateResumeOutput{Resume: updated, Defects: other}, nil
}

// applyImagePolicy keeps personal_info.image tied to a transformer result.
// A client may clear the image but never point it at an arbitrary URL.
func applyImagePolicy(existing, updated *resume.Resume, processed *service.ProcessedImage) {
	switch {
	case processed != nil:
		updated.PersonalInfo.Image = processed.URL
		updated.ImageAssetID = processed.AssetID
	case updated.PersonalInfo.Image == "":
		updated.ImageAssetID = ""
	default:
		updated.PersonalInfo.Image = existing.PersonalInfo.Image
		updated.ImageAssetID = existing.ImageAssetID
	}
}

func (uc *UpdateResumeUseCase) processImage(ctx context.Context, resumeID uuid.UUID, img *ImageUpload) (*service.ProcessedImage, error) {
	if img.File == nil {
		return nil, apperror.NewInvalidInput("image file is missing", nil)
	}
	data, err := io.ReadAll(io.LimitReader(img.File, MaxImageBytes+1))
	if err != nil {
		return nil, apperror.NewInvalidInput("failed to read image", err)
	}
	if len(data) == 0 {
		return nil, apperror.NewInvalidInput("image is empty", nil)
	}
	if len(data) > MaxImageBytes {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image exceeds %d bytes", MaxImageBytes), nil)
	}
	if mt := mimetype.Detect(data); !isImage(mt) {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unsupported image type %s", mt.String()), nil)
	}

	if uc.scanner != nil {
		if err := uc.scanner.Scan(ctx, bytes.NewReader(data)); err != nil {
			if errors.Is(err, service.ErrInfected) {
				return nil, apperror.NewInvalidInput("image rejected by malware scan", err)
			}
			return nil, apperror.NewInternal("image scan failed", err)
		}
	}

	callCtx, cancel := withCallTimeout(ctx, uc.opts.AssetTimeout)
	defer cancel()

	processed, err := uc.transformer.Transform(callCtx, bytes.NewReader(data), resumeID.String(), img.RemoveBackground)
	if err != nil {
		if apperror.KindOf(err) != apperror.KindTransport {
			switch {
			case timedOut(ctx, callCtx):
				err = &service.AssetError{Kind: apperror.KindTransport, Message: "image service timed out", Err: err}
			case ctx.Err() != nil:
				err = &service.AssetError{Kind: apperror.KindTransport, Message: "image upload cancelled", Err: err}
			}
		}
		kind := apperror.KindOf(err)
		metrics.ObserveAssetTransform(string(kind))
		return nil, apperror.NewUpstream(kind, "image transformation failed", err)
	}
	metrics.ObserveAssetTransform(metrics.OutcomeOK)
	return processed, nil
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
