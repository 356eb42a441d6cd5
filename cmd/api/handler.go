package api

import (
	"net/http"
	"time"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	authusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/usecase"
	boarddelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/delivery"
	boardusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/usecase"
	carddelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/delivery"
	cardusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/usecase"
	commentdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/delivery"
	commentusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/usecase"
	listdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/delivery"
	listusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/usecase"
	notifdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/delivery"
	subtaskdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/delivery"
	subtaskusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/usecase"
	tagdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/delivery"
	tagusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Usecases is everything the HTTP layer serves.
type Usecases struct {
	Auth    authusecase.AuthUsecase
	Board   boardusecase.BoardUsecase
	Card    cardusecase.CardUsecase
	List    listusecase.ListUsecase
	Tag     tagusecase.TagUsecase
	Comment commentusecase.CommentUsecase
	Subtask subtaskusecase.SubtaskUsecase
}

type Handler struct {
	authUsecase authusecase.AuthUsecase
	config      *config.Config

	auth          *authdelivery.AuthHandler
	boards        *boarddelivery.BoardHandler
	cards         *carddelivery.CardHandler
	lists         *listdelivery.ListHandler
	tags          *tagdelivery.TagHandler
	comments      *commentdelivery.CommentHandler
	subtasks      *subtaskdelivery.SubtaskHandler
	notifications *notifdelivery.NotificationHandler
}

func NewHandler(cfg *config.Config, uc Usecases, notifications *notifdelivery.NotificationHandler) *Handler {
	return &Handler{
		authUsecase:   uc.Auth,
		config:        cfg,
		auth:          authdelivery.NewAuthHandler(uc.Auth),
		boards:        boarddelivery.NewBoardHandler(uc.Board),
		cards:         carddelivery.NewCardHandler(uc.Card),
		lists:         listdelivery.NewListHandler(uc.List),
		tags:          tagdelivery.NewTagHandler(uc.Tag),
		comments:      commentdelivery.NewCommentHandler(uc.Comment),
		subtasks:      subtaskdelivery.NewSubtaskHandler(uc.Subtask),
		notifications: notifications,
	}
}

// Router builds the gin engine with every route mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.SetupRoutes(r)
	return r
}

// Server wraps the router with CORS and the server timeouts.
func (h *Handler) Server(addr string) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins:   h.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:         addr,
		Handler:      c.Handler(h.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
