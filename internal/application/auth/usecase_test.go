package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stocktrace-api/internal/application/auth"
	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocktrace-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	s := memory.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "U1", Email: "admin@example.com", PasswordHash: string(hash), Role: entity.RoleAdmin, IsApproved: true}))
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "U2", Email: "nuevo@example.com", PasswordHash: string(hash), Role: entity.RoleStaff}))
	return auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "stocktrace"})
}

func TestLogin_OK(t *testing.T) {
	uc := newAuth(t)
	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ADMIN@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "U1", res.User.ID)

	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "U1", userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "malo"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no revela si el email existe")
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nuevo@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "usuario sin aprobar")
}

func TestMe(t *testing.T) {
	uc := newAuth(t)
	me, err := uc.Me(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)

	_, err = uc.Me(context.Background(), "U404")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
