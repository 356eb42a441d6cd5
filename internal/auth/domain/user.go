package domain

import (
	"strings"
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:70;not null"`
	LastName  string    `json:"lastName" gorm:"size:70;not null"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // Never return password in JSON
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// FullName is used in notification texts. Falls back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey;size:512"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expiresAt"`
}
