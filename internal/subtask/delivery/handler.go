package delivery

import (
	"net/http"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	subtaskdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type SubtaskHandler struct {
	subtaskUsecase usecase.SubtaskUsecase
}

func NewSubtaskHandler(subtaskUsecase usecase.SubtaskUsecase) *SubtaskHandler {
	return &SubtaskHandler{subtaskUsecase: subtaskUsecase}
}

// POST /subtask/createSubtask
func (h *SubtaskHandler) Create(c *gin.Context) {
	var req subtaskdto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := h.subtaskUsecase.Create(c.Request.Context(), authdelivery.CurrentUser(c), &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtaskdto.NewSubtaskResponse(subtask))
}

// GET /subtask/cards/:cardId/subtasks
func (h *SubtaskHandler) ByCard(c *gin.Context) {
	cardID, ok := httpx.ParamID(c, "cardId")
	if !ok {
		return
	}

	subtasks, err := h.subtaskUsecase.ListByCard(authdelivery.CurrentUserID(c), cardID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskdto.NewSubtaskResponses(subtasks))
}

// GET /subtask/getSubtask/:id
func (h *SubtaskHandler) Get(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	subtask, err := h.subtaskUsecase.Get(authdelivery.CurrentUserID(c), id)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskdto.NewSubtaskResponse(subtask))
}

// PUT /subtask/updateSubtask/:id
func (h *SubtaskHandler) Update(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req subtaskdto.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := h.subtaskUsecase.Update(c.Request.Context(), authdelivery.CurrentUser(c), id, &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskdto.NewSubtaskResponse(subtask))
}

// PATCH /subtask/inactivateSubtask/:id
func (h *SubtaskHandler) Inactivate(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.subtaskUsecase.Inactivate(c.Request.Context(), authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subtask inactivated"})
}
