package resume

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

type CreateResumeUseCase struct {
	repo      resume.Repository
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewCreateResumeUseCase(repo resume.Repository, publisher service.EventPublisher, log logger.Logger) *CreateResumeUseCase {
	return &CreateResumeUseCase{repo: repo, publisher: publisher, logger: log}
}

type CreateResumeInput struct {
	OwnerID uuid.UUID
	Title   string
}

type CreateResumeOutput struct {
	Resume *resume.Resume
}

// Execute creates an empty document carrying only a title.
func (uc *CreateResumeUseCase) Execute(ctx context.Context, input CreateResumeInput) (*CreateResumeOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewInvalidInput("title is required", resume.ErrTitleRequired)
	}

	now := time.Now().UTC()
	doc := resume.New(input.OwnerID, title, now)
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, persistenceError("failed to create resume", err)
	}

	uc.logger.Info("Resume created", zap.String("resume_id", doc.ID.String()), zap.String("owner_id", input.OwnerID.String()))
	publishAsync(uc.publisher, uc.logger, resume.NewEvent(resume.EventCreated, doc, now))

	return &CreateResumeOutput{Resume: doc}, nil
}
