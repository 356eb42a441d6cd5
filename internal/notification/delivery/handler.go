package delivery

import (
	"context"
	"log"
	"net/http"
	"strconv"

	authdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/delivery"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/channel"

	"github.com/gin-gonic/gin"
)

// ChannelAuthorizer signs private channel subscriptions.
type ChannelAuthorizer interface {
	AuthorizePrivateChannel(params []byte) ([]byte, error)
}

// SocketServer attaches an upgraded connection to a user.
type SocketServer interface {
	ServeUser(w http.ResponseWriter, r *http.Request, userID uint) error
}

type NotificationHandler struct {
	service    *notification.Service
	authorizer ChannelAuthorizer
	sockets    SocketServer
}

// NewNotificationHandler wires the realtime routes. authorizer and sockets may
// be nil when Pusher or the WebSocket hub are disabled.
func NewNotificationHandler(service *notification.Service, authorizer ChannelAuthorizer, sockets SocketServer) *NotificationHandler {
	return &NotificationHandler{service: service, authorizer: authorizer, sockets: sockets}
}

type pusherAuthRequest struct {
	ChannelName string `form:"channel_name" json:"channel_name"`
	SocketID    string `form:"socket_id" json:"socket_id"`
}

// PusherAuth signs a subscription to the caller's own private channel.
// POST /pusher/auth
func (h *NotificationHandler) PusherAuth(c *gin.Context) {
	var req pusherAuthRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_name and socket_id are required"})
		return
	}
	if req.ChannelName == "" || req.SocketID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_name and socket_id are required"})
		return
	}

	userID := authdelivery.CurrentUserID(c)
	if req.ChannelName != channel.PrivateUserChannel(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden channel"})
		return
	}

	if h.authorizer == nil {
		log.Printf("[Pusher] Auth requested by user %d but Pusher is not configured", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "channel authorization failed"})
		return
	}

	response, err := h.authorizer.AuthorizePrivateChannel(channel.AuthParams(req.ChannelName, req.SocketID))
	if err != nil {
		log.Printf("[Pusher] Auth failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "channel authorization failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", response)
}

// GET|POST /realtime/notifications?unread=true&limit=50&offset=0
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, unread, err := h.service.List(authdelivery.CurrentUserID(c), unreadOnly, limit, offset)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"unread": unread,
	})
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

// POST /realtime/notifications/mark-read
// An empty or missing ids list marks everything read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req markReadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updated, err := h.service.MarkRead(authdelivery.CurrentUserID(c), req.IDs)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// POST /realtime/notifications/mark-one-read/:id
func (h *NotificationHandler) MarkOneRead(c *gin.Context) {
	payload, err := h.service.MarkOneRead(authdelivery.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// POST /realtime/notifications/test-push
func (h *NotificationHandler) TestPush(c *gin.Context) {
	user := authdelivery.CurrentUser(c)

	n, err := h.service.Notify(c.Request.Context(), notification.Request{
		UserID:  user.ID,
		Type:    notifdomain.TypeTest,
		Title:   "Notificación de prueba",
		Message: "Si ves esto, las notificaciones en tiempo real funcionan.",
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, n.Payload())
}

// POST /realtime/notifications/test-email
// Always delivered to the caller's own address.
func (h *NotificationHandler) TestEmail(c *gin.Context) {
	to := authdelivery.CurrentUser(c).Email
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account has no email address"})
		return
	}

	if err := h.service.SendTestEmail(context.WithoutCancel(c.Request.Context()), to); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email sent", "to": to})
}

// GET /realtime/ws
func (h *NotificationHandler) ServeWS(c *gin.Context) {
	if h.sockets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "websocket hub is not enabled"})
		return
	}

	userID := authdelivery.CurrentUserID(c)
	if err := h.sockets.ServeUser(c.Writer, c.Request, userID); err != nil {
		// The upgrader has already written an HTTP error response.
		log.Printf("[WS] Upgrade failed for user %d: %v", userID, err)
	}
}
