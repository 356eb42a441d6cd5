package usecase

import (
	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/dto"
)

// AuthUsecase covers account registration, token issuance and device registration
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(accessToken string) (*authdomain.User, error)

	RegisterFCMToken(userID uint, req *authdto.RegisterFCMTokenRequest) error
	UnregisterFCMToken(userID uint, token string) error
}
