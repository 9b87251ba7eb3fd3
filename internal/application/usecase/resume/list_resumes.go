package resume

import (
	"context"

	"github.com/google/uuid"

	"github.com/devang9890/resume/internal/domain/resume"
)

type ListResumesUseCase struct {
	repo resume.Repository
}

func NewListResumesUseCase(repo resume.Repository) *ListResumesUseCase {
	return &ListResumesUseCase{repo: repo}
}

type ListResumesOutput struct {
	Resumes []*resume.Resume
}

func (uc *ListResumesUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*ListResumesOutput, error) {
	docs, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistenceError("failed to list resumes", err)
	}
	if docs == nil {
		docs = []*resume.Resume{}
	}
	return &ListResumesOutput{Resumes: docs}, nil
}
