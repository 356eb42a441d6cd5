package repository

import (
	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"

	"gorm.io/gorm"
)

// UserRepository defines data access for users and their refresh tokens
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id uint) (*authdomain.User, error)
	// FindByIDs returns the users that exist among ids, in id order
	FindByIDs(ids []uint) ([]authdomain.User, error)
	// Search matches query against first name, last name and email, case-insensitively
	Search(query string, limit int) ([]authdomain.User, error)

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
}

// FCMTokenRepository defines the interface for FCM token operations
type FCMTokenRepository interface {
	SaveToken(userID uint, token, deviceInfo string) error
	GetTokensByUserID(userID uint) ([]authdomain.FCMToken, error)
	DeleteToken(userID uint, token string) error
	DeleteTokens(tokens []string) error
}
