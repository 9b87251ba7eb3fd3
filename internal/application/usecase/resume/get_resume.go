package resume

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devang9890/resume/internal/domain/resume"
)

type GetResumeUseCase struct {
	repo resume.Repository
}

func NewGetResumeUseCase(repo resume.Repository) *GetResumeUseCase {
	return &GetResumeUseCase{repo: repo}
}

type GetResumeInput struct {
	OwnerID  uuid.UUID
	ResumeID uuid.UUID
}

type GetResumeOutput struct {
	Resume *resume.Resume
}

func (uc *GetResumeUseCase) Execute(ctx context.Context, input GetResumeInput) (*GetResumeOutput, error) {
	doc, err := uc.repo.FindByID(ctx, input.ResumeID, input.OwnerID)
	if err != nil {
		if errors.Is(err, resume.ErrResumeNotFound) {
			return nil, notFound(input.ResumeID)
		}
		return nil, persistenceError("failed to load resume", err)
	}
	return &GetResumeOutput{Resume: doc}, nil
}

type GetPublicResumeUseCase struct {
	repo resume.Repository
}

func NewGetPublicResumeUseCase(repo resume.Repository) *GetPublicResumeUseCase {
	return &GetPublicResumeUseCase{repo: repo}
}

// Execute returns a document only when it is public. A private document
// reports the same not-found as a missing one.
func (uc *GetPublicResumeUseCase) Execute(ctx context.Context, resumeID uuid.UUID) (*GetResumeOutput, error) {
	doc, err := uc.repo.FindPublicByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, resume.ErrResumeNotFound) {
			return nil, notFound(resumeID)
		}
		return nil, persistenceError("failed to load resume", err)
	}
	return &GetResumeOutput{Resume: doc}, nil
}
