package domain

import "time"

// Payload is the flat document pushed to clients and returned by the API.
type Payload struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Resource  *Resource `json:"resource"`
	ActorID   *uint     `json:"actorId"`
	Read      bool      `json:"read"`
	CreatedAt string    `json:"createdAt"`
	EventID   *string   `json:"eventId,omitempty"`
}

func (n *Notification) Payload() Payload {
	return Payload{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Resource:  n.Resource(),
		ActorID:   n.ActorID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		EventID:   n.EventID,
	}
}
