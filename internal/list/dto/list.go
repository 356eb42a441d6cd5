package dto

type CreateListRequest struct {
	BoardID uint   `json:"boardId" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type UpdateListRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position" binding:"omitempty,min=0"`
}
