package domain

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeCardAssigned     Type = "CARD_ASSIGNED"
	TypeCardMemberAdded  Type = "CARD_MEMBER_ADDED"
	TypeBoardMemberAdded Type = "BOARD_MEMBER_ADDED"
	TypeCommentNew       Type = "COMMENT_NEW"
	TypeCommentReply     Type = "COMMENT_REPLY"
	TypeSubtaskAssigned  Type = "SUBTASK_ASSIGNED"
	TypeCardDueSoon      Type = "CARD_DUE_SOON"
	TypeTest             Type = "TEST"
)

// ResourceKind is the closed set of entities a notification can point at.
type ResourceKind string

const (
	ResourceBoard ResourceKind = "board"
	ResourceCard  ResourceKind = "card"
)

func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case ResourceBoard, ResourceCard:
		return ResourceKind(s), nil
	default:
		return "", fmt.Errorf("unknown resource kind %q", s)
	}
}

// Resource identifies the entity a notification links to.
type Resource struct {
	Kind ResourceKind `json:"kind"`
	ID   uint         `json:"id"`
}

func BoardResource(id uint) *Resource {
	return &Resource{Kind: ResourceBoard, ID: id}
}

func CardResource(id uint) *Resource {
	return &Resource{Kind: ResourceCard, ID: id}
}

type Notification struct {
	ID           string        `gorm:"primaryKey;size:36"`
	UserID       uint          `gorm:"not null;index:idx_notifications_user_read_created,priority:1"`
	Type         Type          `gorm:"size:50;not null"`
	Title        string        `gorm:"size:200;not null"`
	Message      string        `gorm:"size:500;not null"`
	ResourceKind *ResourceKind `gorm:"size:20"`
	ResourceID   *uint
	ActorID      *uint
	Read         bool      `gorm:"not null;default:false;index:idx_notifications_user_read_created,priority:2"`
	CreatedAt    time.Time `gorm:"not null;index:idx_notifications_user_read_created,priority:3"`
	EventID      *string   `gorm:"size:255;uniqueIndex"`
}

// Resource returns the linked entity, or nil unless both kind and id are set.
func (n *Notification) Resource() *Resource {
	if n.ResourceKind == nil || n.ResourceID == nil {
		return nil
	}
	return &Resource{Kind: *n.ResourceKind, ID: *n.ResourceID}
}

func (n *Notification) SetResource(r *Resource) {
	if r == nil {
		n.ResourceKind, n.ResourceID = nil, nil
		return
	}
	kind, id := r.Kind, r.ID
	n.ResourceKind, n.ResourceID = &kind, &id
}
