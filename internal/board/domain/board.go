package domain

import (
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"
)

const (
	MaxNameLength        = 70
	MaxDescriptionLength = 200
)

type Board struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	Name         string            `json:"name" gorm:"size:70;not null"`
	Description  *string           `json:"description" gorm:"size:200"`
	Image        *string           `json:"image" gorm:"size:500"`
	CreationDate time.Time         `json:"creationDate" gorm:"not null"`
	UserID       uint              `json:"userId" gorm:"index;not null"` // owner, immutable
	IsPublic     bool              `json:"isPublic" gorm:"not null;default:false"`
	Members      []authdomain.User `json:"members" gorm:"many2many:board_user_association;constraint:OnDelete:CASCADE"`
	Tags         []tagdomain.Tag   `json:"tags" gorm:"many2many:board_tag_association;constraint:OnDelete:CASCADE"`
}

// FavoriteBoard marks a board as starred by a user.
type FavoriteBoard struct {
	UserID    uint      `json:"userId" gorm:"primaryKey"`
	BoardID   uint      `json:"boardId" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

func (FavoriteBoard) TableName() string {
	return "favorite_boards"
}

// IsMember reports whether userID is in the loaded Members slice.
func (b *Board) IsMember(userID uint) bool {
	for _, m := range b.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
