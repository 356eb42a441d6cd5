package dto

import (
	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"
)

type CreateCardRequest struct {
	Title         string           `json:"title" binding:"required"`
	Description   *string          `json:"description"`
	BoardID       uint             `json:"boardId" binding:"required"`
	ListID        *uint            `json:"listId"`
	ResponsableID *uint            `json:"responsableId"`
	BeginDate     *httpx.Timestamp `json:"beginDate"`
	DueDate       *httpx.Timestamp `json:"dueDate"`
	State         *string          `json:"state"`
	Priority      *string          `json:"priority"`
	Tags          []string         `json:"tags"`
	MemberIDs     []uint           `json:"memberIds"`
}

// UpdateCardRequest applies only the fields that are present. responsableId
// and listId may be sent as null to clear them.
type UpdateCardRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	ListID        httpx.OptionalID `json:"listId"`
	ResponsableID httpx.OptionalID `json:"responsableId"`
	BeginDate     *httpx.Timestamp `json:"beginDate"`
	DueDate       *httpx.Timestamp `json:"dueDate"`
	State         *string          `json:"state"`
	Priority      *string          `json:"priority"`
	Tags          *[]string        `json:"tags"`
	MemberIDs     *[]uint          `json:"memberIds"`
}

type AddMembersRequest struct {
	UserIDs []uint `json:"userIds" binding:"required,min=1"`
}

type RemoveMemberRequest struct {
	UserID uint `json:"userId" form:"userId" binding:"required"`
}

type CardResponse struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Description   *string           `json:"description"`
	Priority      *string           `json:"priority"`
	ResponsableID *uint             `json:"responsableId"`
	CreationDate  string            `json:"creationDate"`
	BeginDate     *string           `json:"beginDate"`
	DueDate       *string           `json:"dueDate"`
	State         string            `json:"state"`
	BoardID       uint              `json:"boardId"`
	ListID        *uint             `json:"listId"`
	ListName      *string           `json:"listName"`
	Tags          []string          `json:"tags"`
	Members       []authdomain.User `json:"members"`
}

func NewCardResponse(card *carddomain.Card) CardResponse {
	resp := CardResponse{
		ID:            card.ID,
		Title:         card.Title,
		Description:   card.Description,
		Priority:      card.Priority,
		ResponsableID: card.ResponsableID,
		CreationDate:  *httpx.FormatTime(&card.CreationDate),
		BeginDate:     httpx.FormatTime(card.BeginDate),
		DueDate:       httpx.FormatTime(card.DueDate),
		State:         card.State,
		BoardID:       card.BoardID,
		ListID:        card.ListID,
		Tags:          make([]string, 0, len(card.Tags)),
		Members:       card.Members,
	}
	if card.List != nil {
		name := card.List.Name
		resp.ListName = &name
	}
	for _, t := range card.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	if resp.Members == nil {
		resp.Members = []authdomain.User{}
	}
	return resp
}

func NewCardResponses(cards []carddomain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, NewCardResponse(&cards[i]))
	}
	return out
}
