package dto

import (
	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"
)

type CreateCommentRequest struct {
	CardID   uint   `json:"cardId" binding:"required"`
	Content  string `json:"content"`
	ParentID *uint  `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type ListCommentsQuery struct {
	CardID uint `form:"cardId" binding:"required"`
	Limit  int  `form:"limit"`
	Offset int  `form:"offset"`
}

// CommentResponse hides the content of a deleted comment behind a placeholder.
type CommentResponse struct {
	ID          uint             `json:"id"`
	CardID      uint             `json:"cardId"`
	UserID      uint             `json:"userId"`
	User        *authdomain.User `json:"user"`
	ParentID    *uint            `json:"parentId"`
	Content     *string          `json:"content"`
	Placeholder *string          `json:"placeholder"`
	IsEdited    bool             `json:"isEdited"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   *string          `json:"updatedAt"`
	Deleted     bool             `json:"deleted"`
	DeletedAt   *string          `json:"deletedAt"`
	DeletedBy   *uint            `json:"deletedBy"`
}

type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type ListCommentsResponse struct {
	Items []CommentResponse `json:"items"`
	Meta  ListMeta          `json:"meta"`
}

func NewCommentResponse(c *commentdomain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		CardID:    c.CardID,
		UserID:    c.UserID,
		User:      c.User,
		ParentID:  c.ParentID,
		IsEdited:  c.IsEdited,
		CreatedAt: *httpx.FormatTime(&c.CreatedAt),
		UpdatedAt: httpx.FormatTime(c.UpdatedAt),
		Deleted:   c.IsDeleted(),
		DeletedAt: httpx.FormatTime(c.DeletedAt),
		DeletedBy: c.DeletedBy,
	}
	if c.IsDeleted() {
		placeholder := commentdomain.DeletedPlaceholder
		resp.Placeholder = &placeholder
	} else {
		content := c.Content
		resp.Content = &content
	}
	return resp
}

func NewCommentResponses(comments []commentdomain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
