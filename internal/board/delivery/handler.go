package delivery

import (
	"net/http"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	boarddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardUsecase usecase.BoardUsecase
}

func NewBoardHandler(boardUsecase usecase.BoardUsecase) *BoardHandler {
	return &BoardHandler{boardUsecase: boardUsecase}
}

// POST /board/createBoard
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req boarddto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardUsecase.Create(c.Request.Context(), authdelivery.CurrentUser(c), &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// GET /board/getBoards
func (h *BoardHandler) GetBoards(c *gin.Context) {
	boards, err := h.boardUsecase.ListVisible(authdelivery.CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// GET /board/getMyBoards
func (h *BoardHandler) GetMyBoards(c *gin.Context) {
	boards, err := h.boardUsecase.ListMine(authdelivery.CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// GET /board/getBoard/:id
func (h *BoardHandler) GetBoard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	board, err := h.boardUsecase.Get(authdelivery.CurrentUserID(c), id)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// PUT /board/updateBoard/:id
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req boarddto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardUsecase.Update(c.Request.Context(), authdelivery.CurrentUser(c), id, &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// DELETE /board/deleteBoard/:id
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.boardUsecase.Delete(c.Request.Context(), authdelivery.CurrentUser(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board deleted"})
}

// POST /board/addMember/:id
func (h *BoardHandler) AddMember(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req boarddto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardUsecase.AddMember(c.Request.Context(), authdelivery.CurrentUser(c), id, req.UserID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// DELETE /board/removeMember
// Accepts {boardId, userId} as a JSON body or query parameters.
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	var req boarddto.RemoveMemberRequest
	var err error
	if c.Request.ContentLength > 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardUsecase.RemoveMember(c.Request.Context(), authdelivery.CurrentUser(c), req.BoardID, req.UserID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GET /board/getMembers/:id
func (h *BoardHandler) GetMembers(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	members, err := h.boardUsecase.Members(authdelivery.CurrentUserID(c), id)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// GET /board/users/search?q=
func (h *BoardHandler) SearchUsers(c *gin.Context) {
	users, err := h.boardUsecase.SearchUsers(c.Query("q"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// POST /board/favoriteBoard/:id
func (h *BoardHandler) AddFavorite(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.boardUsecase.AddFavorite(authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board added to favorites"})
}

// GET /board/getFavoriteBoards
func (h *BoardHandler) GetFavorites(c *gin.Context) {
	boards, err := h.boardUsecase.ListFavorites(authdelivery.CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// DELETE /board/removeFavoriteBoard/:id
func (h *BoardHandler) RemoveFavorite(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.boardUsecase.RemoveFavorite(authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board removed from favorites"})
}
