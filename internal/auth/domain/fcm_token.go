package domain

import "time"

// FCMToken represents a Firebase Cloud Messaging device token for push notifications
type FCMToken struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	UserID     uint      `json:"userId" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;size:512;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"deviceInfo"`                             // Browser/device metadata
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
