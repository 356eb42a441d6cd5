package delivery

import (
	"net/http"

	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagUsecase usecase.TagUsecase
}

func NewTagHandler(tagUsecase usecase.TagUsecase) *TagHandler {
	return &TagHandler{tagUsecase: tagUsecase}
}

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /tag
func (h *TagHandler) Create(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagUsecase.Create(req.Name)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// GET /tag/by-name/:name
func (h *TagHandler) GetByName(c *gin.Context) {
	tag, err := h.tagUsecase.GetByName(c.Param("name"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// GET /tag
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagUsecase.List()
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// PUT /tag/:id
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagUsecase.Rename(id, req.Name)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
