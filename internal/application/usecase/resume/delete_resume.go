package resume

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/logger"
)

type DeleteResumeUseCase struct {
	repo      resume.Repository
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewDeleteResumeUseCase(repo resume.Repository, publisher service.EventPublisher, log logger.Logger) *DeleteResumeUseCase {
	return &DeleteResumeUseCase{repo: repo, publisher: publisher, logger: log}
}

type DeleteResumeInput struct {
	OwnerID  uuid.UUID
	ResumeID uuid.UUID
}

type DeleteResumeOutput struct {
	// Deleted is false when nothing owned by the caller matched.
	Deleted bool
}

// Execute is idempotent: deleting a missing or foreign document succeeds
// with no effect.
func (uc *DeleteResumeUseCase) Execute(ctx context.Context, input DeleteResumeInput) (*DeleteResumeOutput, error) {
	doc, err := uc.repo.Delete(ctx, input.ResumeID, input.OwnerID)
	if err != nil {
		return nil, persistenceError("failed to delete resume", err)
	}
	if doc == nil {
		return &DeleteResumeOutput{Deleted: false}, nil
	}

	uc.logger.Info("Resume deleted", zap.String("resume_id", doc.ID.String()))
	evt := resume.NewEvent(resume.EventDeleted, doc, time.Now().UTC())
	evt.AssetID = doc.ImageAssetID
	publishAsync(uc.publisher, uc.logger, evt)

	return &DeleteResumeOutput{Deleted: true}, nil
}
