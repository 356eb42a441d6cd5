package dto

import (
	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	subtaskdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"
)

type CreateSubtaskRequest struct {
	Description   string           `json:"description"`
	LimitDate     *httpx.Timestamp `json:"limitDate"`
	ResponsibleID *uint            `json:"responsibleId"`
	CardID        uint             `json:"cardId" binding:"required"`
}

type UpdateSubtaskRequest struct {
	Description   *string          `json:"description"`
	LimitDate     *httpx.Timestamp `json:"limitDate"`
	ResponsibleID httpx.OptionalID `json:"responsibleId"`
	CardID        *uint            `json:"cardId"`
}

type SubtaskResponse struct {
	ID          uint             `json:"id"`
	Description *string          `json:"description"`
	LimitDate   *string          `json:"limitDate"`
	Responsible *authdomain.User `json:"responsible"`
	CardID      uint             `json:"cardId"`
	IsActive    bool             `json:"isActive"`
}

// NewSubtaskResponse nulls the description of an inactive subtask.
func NewSubtaskResponse(s *subtaskdomain.Subtask) SubtaskResponse {
	resp := SubtaskResponse{
		ID:          s.ID,
		LimitDate:   httpx.FormatTime(s.LimitDate),
		Responsible: s.Responsible,
		CardID:      s.CardID,
		IsActive:    s.IsActive,
	}
	if s.IsActive {
		description := s.Description
		resp.Description = &description
	}
	return resp
}

func NewSubtaskResponses(subtasks []subtaskdomain.Subtask) []SubtaskResponse {
	out := make([]SubtaskResponse, 0, len(subtasks))
	for i := range subtasks {
		out = append(out, NewSubtaskResponse(&subtasks[i]))
	}
	return out
}
