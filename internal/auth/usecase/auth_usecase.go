package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	fcmRepo  repository.FCMTokenRepository
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmRepo repository.FCMTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		fcmRepo:  fcmRepo,
		config:   cfg,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}

	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &authdomain.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Password:  hashedPassword,
	}

	if err := u.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	return u.generateTokens(user)
}

// RefreshToken rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Internal("failed to load refresh token", err)
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, apperror.Unauthorized("refresh token expired")
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}

	if user == nil {
		return nil, apperror.Unauthorized("user not found")
	}

	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperror.Internal("failed to revoke refresh token", err)
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return apperror.Internal("failed to revoke refresh token", err)
	}
	return nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	claims, err := u.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or expired token")
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}

	if user == nil {
		return nil, apperror.Unauthorized("user not found")
	}

	return user, nil
}

func (u *authUsecase) RegisterFCMToken(userID uint, req *authdto.RegisterFCMTokenRequest) error {
	if err := u.fcmRepo.SaveToken(userID, req.Token, req.DeviceInfo); err != nil {
		return apperror.Internal("failed to save device token", err)
	}
	return nil
}

func (u *authUsecase) UnregisterFCMToken(userID uint, token string) error {
	if err := u.fcmRepo.DeleteToken(userID, token); err != nil {
		return apperror.Internal("failed to delete device token", err)
	}
	return nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()

	accessToken, err := u.sign(user.ID, tokenTypeAccess, now, u.config.JWTAccessExpiry)
	if err != nil {
		return nil, apperror.Internal("failed to sign access token", err)
	}

	refreshToken, err := u.sign(user.ID, tokenTypeRefresh, now, u.config.JWTRefreshExpiry)
	if err != nil {
		return nil, apperror.Internal("failed to sign refresh token", err)
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, apperror.Internal("failed to store refresh token", err)
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) sign(userID uint, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("expected %s token, got %q", wantType, claims.TokenType)
	}
	return claims, nil
}
