package delivery

import (
	"net/http"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	commentdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUsecase usecase.CommentUsecase
}

func NewCommentHandler(commentUsecase usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{commentUsecase: commentUsecase}
}

// POST /comment/create
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentdto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentUsecase.Create(c.Request.Context(), authdelivery.CurrentUser(c), &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentdto.NewCommentResponse(comment))
}

// GET /comment/list?cardId=&limit=&offset=
func (h *CommentHandler) List(c *gin.Context) {
	var query commentdto.ListCommentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardId is required"})
		return
	}

	comments, meta, err := h.commentUsecase.List(authdelivery.CurrentUserID(c), query)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, commentdto.ListCommentsResponse{
		Items: commentdto.NewCommentResponses(comments),
		Meta:  meta,
	})
}

// PUT /comment/update/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req commentdto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentUsecase.Update(c.Request.Context(), authdelivery.CurrentUserID(c), id, req.Content)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, commentdto.NewCommentResponse(comment))
}

// DELETE /comment/delete/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.commentUsecase.Delete(c.Request.Context(), authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// POST /comment/restore/:id
func (h *CommentHandler) Restore(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.commentUsecase.Restore(c.Request.Context(), authdelivery.CurrentUserID(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment restored"})
}
