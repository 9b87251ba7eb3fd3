package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/domain/user"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
)

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{userRepo: repo, jwtSvc: jwtSvc, logger: log}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterOutput struct {
	AccessToken string
	User        *user.User
}

// Execute creates the account and signs the caller in.
func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := user.NormalizeEmail(input.Email)
	if err := user.ValidateRegistration(input.Name, email, input.Password); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewConflict("user", "email", email)
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to create user", err).WithKind(apperror.KindPersistence)
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	uc.logger.Info("User registered", zap.String("user_id", u.ID.String()))
	return &RegisterOutput{AccessToken: token, User: u}, nil
}
