package usecase

import (
	"testing"
	"time"

	authdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase(t *testing.T) AuthUsecase {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
	return NewAuthUsecase(repository.NewUserRepository(db), repository.NewFCMTokenRepository(db), cfg)
}

func register(t *testing.T, uc AuthUsecase) *authdto.TokenResponse {
	resp, err := uc.Register(&authdto.RegisterRequest{
		FirstName: " Ana ",
		LastName:  "Lopez",
		Email:     "Ana@Example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Ana", resp.User.FirstName)
	assert.Equal(t, "ana@example.com", resp.User.Email)

	_, err := uc.Register(&authdto.RegisterRequest{FirstName: "A", LastName: "B", Email: "ana@example.com", Password: "secret123"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	login, err := uc.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = uc.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestValidateTokenRejectsRefreshTokens(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	user, err := uc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = uc.ValidateToken(resp.RefreshToken)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = uc.ValidateToken("not-a-jwt")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestRefreshTokenRotates(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	rotated, err := uc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	_, err = uc.RefreshToken(resp.RefreshToken)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = uc.RefreshToken(rotated.AccessToken)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	require.NoError(t, uc.Logout(rotated.RefreshToken))
	_, err = uc.RefreshToken(rotated.RefreshToken)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}
