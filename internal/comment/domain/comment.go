package domain

import (
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
)

// DeletedPlaceholder replaces the content of a soft-deleted comment in listings.
const DeletedPlaceholder = "Comentario eliminado"

type Comment struct {
	ID        uint             `gorm:"primaryKey"`
	CardID    uint             `gorm:"index;not null"`
	UserID    uint             `gorm:"index;not null"`
	User      *authdomain.User `gorm:"foreignKey:UserID"`
	ParentID  *uint            `gorm:"index"`
	Content   string           `gorm:"type:text;not null"`
	IsEdited  bool             `gorm:"not null;default:false"`
	CreatedAt time.Time        `gorm:"not null;index"`
	UpdatedAt *time.Time       `gorm:"autoUpdateTime:false"`
	DeletedAt *time.Time
	DeletedBy *uint
}

func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
