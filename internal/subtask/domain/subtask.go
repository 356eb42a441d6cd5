package domain

import (
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
)

const MaxDescriptionLength = 255

type Subtask struct {
	ID            uint   `gorm:"primaryKey"`
	Description   string `gorm:"size:255;not null"`
	LimitDate     *time.Time
	ResponsibleID *uint            `gorm:"index"`
	Responsible   *authdomain.User `gorm:"foreignKey:ResponsibleID"`
	CardID        uint             `gorm:"index;not null"`
	IsActive      bool             `gorm:"not null;default:true"`
}
