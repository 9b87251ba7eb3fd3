package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devang9890/resume/internal/domain/user"
	"github.com/devang9890/resume/pkg/apperror"
)

type GetMeUseCase struct {
	userRepo user.Repository
}

func NewGetMeUseCase(repo user.Repository) *GetMeUseCase {
	return &GetMeUseCase{userRepo: repo}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*user.User, error) {
	u, err := uc.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("user", ownerID.String())
		}
		return nil, apperror.NewInternal("failed to load user", err).WithKind(apperror.KindPersistence)
	}
	return u, nil
}
