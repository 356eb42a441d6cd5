package domain

import (
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	listdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/domain"
	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"
)

const (
	MaxTitleLength       = 150
	MaxDescriptionLength = 500
	DefaultState         = "To Do"
)

type Card struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"size:150;not null"`
	Description     *string   `gorm:"size:500"`
	ResponsableID   *uint     `gorm:"index"`
	CreationDate    time.Time `gorm:"not null"`
	BeginDate       *time.Time
	DueDate         *time.Time        `gorm:"index"`
	State           string            `gorm:"size:255;not null;default:'To Do'"`
	BoardID         uint              `gorm:"index;not null"`
	ListID          *uint             `gorm:"index"`
	Priority        *string           `gorm:"size:20"`
	DueReminderSent bool              `gorm:"not null;default:false"`
	Tags            []tagdomain.Tag   `gorm:"many2many:card_tag_association;constraint:OnDelete:CASCADE"`
	Members         []authdomain.User `gorm:"many2many:card_user_association;constraint:OnDelete:CASCADE"`
	List            *listdomain.List  `gorm:"foreignKey:ListID;constraint:OnDelete:SET NULL"`
}

// IsMember reports whether userID is in the loaded Members slice.
func (c *Card) IsMember(userID uint) bool {
	for _, m := range c.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// SetDueDate changes the due date and re-arms the reminder when it moves.
func (c *Card) SetDueDate(due *time.Time) {
	if sameInstant(c.DueDate, due) {
		return
	}
	c.DueDate = due
	c.DueReminderSent = false
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
