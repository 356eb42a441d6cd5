package dto

type CreateBoardRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	IsPublic    bool     `json:"isPublic"`
	MemberIDs   []uint   `json:"memberIds"`
	Tags        []string `json:"tags"`
}

// UpdateBoardRequest applies only the fields that are present.
// Members and Tags replace the current sets.
type UpdateBoardRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	IsPublic    *bool     `json:"isPublic"`
	Members     *[]uint   `json:"members"`
	Tags        *[]string `json:"tags"`
}

type AddMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type RemoveMemberRequest struct {
	BoardID uint `json:"boardId" form:"boardId" binding:"required"`
	UserID  uint `json:"userId" form:"userId" binding:"required"`
}
