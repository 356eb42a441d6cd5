package api

import (
	"net/http"

	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRoutes(r *gin.Engine) {
	requireAuth := delivery.AuthMiddleware(h.authUsecase)

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.auth.Login)
		auth.POST("/register", h.auth.Register)
		auth.POST("/refresh", h.auth.RefreshToken)
		auth.POST("/logout", h.auth.Logout)
		auth.GET("/me", requireAuth, h.auth.Me)
	}

	fcm := r.Group("/fcm")
	fcm.Use(requireAuth)
	{
		fcm.POST("/register", h.auth.RegisterFCMToken)
		fcm.DELETE("/:token", h.auth.UnregisterFCMToken)
	}

	board := r.Group("/board")
	board.Use(requireAuth)
	{
		board.POST("/createBoard", h.boards.CreateBoard)
		board.GET("/getBoards", h.boards.GetBoards)
		board.GET("/getMyBoards", h.boards.GetMyBoards)
		board.GET("/getBoard/:id", h.boards.GetBoard)
		board.PUT("/updateBoard/:id", h.boards.UpdateBoard)
		board.DELETE("/deleteBoard/:id", h.boards.DeleteBoard)
		board.POST("/addMember/:id", h.boards.AddMember)
		board.DELETE("/removeMember", h.boards.RemoveMember)
		board.GET("/getMembers/:id", h.boards.GetMembers)
		board.GET("/users/search", h.boards.SearchUsers)
		board.POST("/favoriteBoard/:id", h.boards.AddFavorite)
		board.GET("/getFavoriteBoards", h.boards.GetFavorites)
		board.DELETE("/removeFavoriteBoard/:id", h.boards.RemoveFavorite)
	}

	card := r.Group("/card")
	card.Use(requireAuth)
	{
		card.POST("/createCard", h.cards.CreateCard)
		card.GET("/getCards/:boardId", h.cards.GetCards)
		card.GET("/getCard/:id", h.cards.GetCard)
		card.PUT("/updateCard/:id", h.cards.UpdateCard)
		card.DELETE("/deleteCard/:id", h.cards.DeleteCard)
		card.POST("/addMembers/:id", h.cards.AddMembers)
		card.DELETE("/removeMember/:id", h.cards.RemoveMember)
		card.GET("/getMembers/:id", h.cards.GetMembers)
	}

	list := r.Group("/list")
	list.Use(requireAuth)
	{
		list.GET("/by-board/:boardId", h.lists.ByBoard)
		list.POST("/create", h.lists.Create)
		list.PUT("/:id", h.lists.Update)
		list.DELETE("/:id", h.lists.Delete)
	}

	tag := r.Group("/tag")
	tag.Use(requireAuth)
	{
		tag.POST("", h.tags.Create)
		tag.GET("", h.tags.List)
		tag.GET("/by-name/:name", h.tags.GetByName)
		tag.PUT("/:id", h.tags.Update)
	}

	comment := r.Group("/comment")
	comment.Use(requireAuth)
	{
		comment.POST("/create", h.comments.Create)
		comment.GET("/list", h.comments.List)
		comment.PUT("/update/:id", h.comments.Update)
		comment.DELETE("/delete/:id", h.comments.Delete)
		comment.POST("/restore/:id", h.comments.Restore)
	}

	subtask := r.Group("/subtask")
	subtask.Use(requireAuth)
	{
		subtask.POST("/createSubtask", h.subtasks.Create)
		subtask.GET("/cards/:cardId/subtasks", h.subtasks.ByCard)
		subtask.GET("/getSubtask/:id", h.subtasks.Get)
		subtask.PUT("/updateSubtask/:id", h.subtasks.Update)
		subtask.PATCH("/inactivateSubtask/:id", h.subtasks.Inactivate)
	}

	r.POST("/pusher/auth", requireAuth, h.notifications.PusherAuth)

	realtime := r.Group("/realtime")
	realtime.Use(requireAuth)
	{
		realtime.GET("/notifications", h.notifications.List)
		realtime.POST("/notifications", h.notifications.List)
		realtime.POST("/notifications/mark-read", h.notifications.MarkRead)
		realtime.POST("/notifications/mark-one-read/:id", h.notifications.MarkOneRead)
		realtime.POST("/notifications/test-push", h.notifications.TestPush)
		realtime.POST("/notifications/test-email", h.notifications.TestEmail)
		realtime.GET("/ws", h.notifications.ServeWS)
	}
}
