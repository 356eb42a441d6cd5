package delivery

import (
	"net/http"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	carddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/httpx"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	cardUsecase usecase.CardUsecase
}

func NewCardHandler(cardUsecase usecase.CardUsecase) *CardHandler {
	return &CardHandler{cardUsecase: cardUsecase}
}

// POST /card/createCard
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req carddto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardUsecase.Create(c.Request.Context(), authdelivery.CurrentUser(c), &req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, carddto.NewCardResponse(card))
}

// GET /card/getCards/:boardId
func (h *CardHandler) GetCards(c *gin.Context) {
	boardID, ok := httpx.ParamID(c, "boardId")
	if !ok {
		return
	}

	cards, err := h.cardUsecase.ListByBoard(authdelivery.CurrentUserID(c), boardID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, carddto.NewCardResponses(cards))
}

// GET /card/getCard/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	card, err := h.cardUsecase.Get(authdelivery.CurrentUserID(c), id)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, carddto.NewCardResponse(card))
}

// PUT /card/updateCard/:id
func (h *CardHandler) UpdateCard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req carddto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardUsecase.Update(c.Request.Context(), authdelivery.CurrentUser(c), id, &req, httpx.IdempotencyKey(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, carddto.NewCardResponse(card))
}

// DELETE /card/deleteCard/:id
func (h *CardHandler) DeleteCard(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.cardUsecase.Delete(c.Request.Context(), authdelivery.CurrentUser(c), id); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}

// POST /card/addMembers/:id
func (h *CardHandler) AddMembers(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req carddto.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardUsecase.AddMembers(c.Request.Context(), authdelivery.CurrentUser(c), id, req.UserIDs)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, carddto.NewCardResponse(card))
}

// DELETE /card/removeMember/:id
// userId comes from the JSON body or the query string.
func (h *CardHandler) RemoveMember(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req carddto.RemoveMemberRequest
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

	card, err := h.cardUsecase.RemoveMember(c.Request.Context(), authdelivery.CurrentUser(c), id, req.UserID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, carddto.NewCardResponse(card))
}

// GET /card/getMembers/:id
func (h *CardHandler) GetMembers(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	members, err := h.cardUsecase.Members(authdelivery.CurrentUserID(c), id)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}
