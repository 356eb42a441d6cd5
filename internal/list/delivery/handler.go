package delivery

import (
	"net/http"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	listdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type ListHandler struct {
	listUsecase usecase.ListUsecase
}

func NewListHandler(listUsecase usecase.ListUsecase) *ListHandler {
	return &ListHandler{listUsecase: listUsecase}
}

// GET /list/by-board/:boardId
func (h *ListHandler) ByBoard(c *gin.Context) {
	boardID, ok := httpx.ParamID(c, "boardId")
	if !ok {
		return
	}

	lists, err := h.listUsecase.ListByBoard(authdelivery.CurrentUserID(c), boardID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lists})
}

// POST /list/create
func (h *ListHandler) Create(c *gin.Context) {
	var req listdto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.listUsecase.Create(c.Request.Context(), authdelivery.CurrentUserID(c), &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// PUT /list/:id
func (h *ListHandler) Update(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req listdto.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.listUsecase.Update(c.Request.Context(), authdelivery.CurrentUserID(c), id, &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DELETE /list/:id
func (h *ListHandler) Delete(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.listUsecase.Delete(c.Request.Context(), authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
