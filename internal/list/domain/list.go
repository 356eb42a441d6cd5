package domain

import (
	"strings"
	"time"
)

const MaxNameLength = 80

type List struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BoardID   uint      `json:"boardId" gorm:"not null;uniqueIndex:idx_lists_board_name_key,priority:1"`
	Name      string    `json:"name" gorm:"size:80;not null"`
	NameKey   string    `json:"-" gorm:"size:80;not null;uniqueIndex:idx_lists_board_name_key,priority:2"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedBy *uint     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetName stores name along with its case-folded key used for uniqueness.
func (l *List) SetName(name string) {
	l.Name = name
	l.NameKey = NameKey(name)
}

func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
