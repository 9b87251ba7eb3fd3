package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devang9890/resume/internal/domain/user"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, user.ErrUserNotFound
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

func TestRegister_ThenLogin(t *testing.T) {
	repo := newMemoryUserRepo()
	jwtSvc := newJWT()

	reg, err := NewRegisterUseCase(repo, jwtSvc, logger.NewNopLogger()).Execute(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "  Ada@Example.com ",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.NotEqual(t, "secret123", reg.User.PasswordHash)

	claims, err := jwtSvc.ValidateToken(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.OwnerID)

	out, err := NewLoginUseCase(repo, jwtSvc, logger.NewNopLogger()).Execute(context.Background(), LoginInput{
		Email:    "ADA@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, reg.User.ID, out.User.ID)

	me, err := NewGetMeUseCase(repo).Execute(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
}

func TestRegister_Rejections(t *testing.T) {
	repo := newMemoryUserRepo()
	uc := NewRegisterUseCase(repo, newJWT(), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "secret456"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, 409, apperror.ToHTTPStatus(err))

	tests := []RegisterInput{
		{Name: "", Email: "x@example.com", Password: "secret123"},
		{Name: "X", Email: "not-an-email", Password: "secret123"},
		{Name: "X", Email: "x@example.com", Password: "123"},
	}
	for _, in := range tests {
		_, err := uc.Execute(context.Background(), in)
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err), "%+v", in)
	}
}

func TestLogin_BadCredentialsLookTheSame(t *testing.T) {
	repo := newMemoryUserRepo()
	jwtSvc := newJWT()
	_, err := NewRegisterUseCase(repo, jwtSvc, logger.NewNopLogger()).Execute(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	uc := NewLoginUseCase(repo, jwtSvc, logger.NewNopLogger())

	_, wrongPass := uc.Execute(context.Background(), LoginInput{Email: "ada@example.com", Password: "nope-nope"})
	_, unknown := uc.Execute(context.Background(), LoginInput{Email: "bob@example.com", Password: "secret123"})

	for _, err := range []error{wrongPass, unknown} {
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Invalid credentials", appErr.Message)
	}
}

func TestMe_UnknownUser(t *testing.T) {
	_, err := NewGetMeUseCase(newMemoryUserRepo()).Execute(context.Background(), uuid.New())

	assert.Equal(t, apperror.KindNotFoundOrForbidden, apperror.KindOf(err))
}
