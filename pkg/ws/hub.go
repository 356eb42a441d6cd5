package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBuffer     = 32
)

// Message is the envelope written to sockets.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

type delivery struct {
	userID uint
	data   []byte
}

// Hub fans messages out to every socket a user has open. A single goroutine
// (Run) owns the client registry.
type Hub struct {
	clients    map[uint]map[*client]struct{}
	register   chan *client
	unregister chan *client
	deliver    chan delivery
	stop       chan struct{}
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. allowedOrigins empty means same-origin only.
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		clients:    make(map[uint]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		deliver:    make(chan delivery, 256),
		stop:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Run processes registrations and deliveries until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			log.Printf("[WS] User %d connected (%d sockets)", c.userID, len(h.clients[c.userID]))
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.deliver:
			for c := range h.clients[d.userID] {
				select {
				case c.send <- d.data:
				default:
					// Client's send buffer is full, assume disconnected
					log.Printf("[WS] Send buffer full, dropping socket for user %d", c.userID)
					h.remove(c)
				}
			}
		case <-h.stop:
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[uint]map[*client]struct{})
			return
		}
	}
}

// Stop terminates Run and closes every socket's send queue.
func (h *Hub) Stop() {
	close(h.stop)
}

func (h *Hub) remove(c *client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	log.Printf("[WS] User %d disconnected", c.userID)
}

// PublishToUser queues payload for every socket of userID. It never blocks the
// caller; when the hub is saturated the message is dropped.
func (h *Hub) PublishToUser(userID uint, event string, payload interface{}) error {
	data, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		return err
	}
	select {
	case h.deliver <- delivery{userID: userID, data: data}:
		return nil
	default:
		return errHubSaturated
	}
}

// ServeUser upgrades the request and attaches the socket to userID.
func (h *Hub) ServeUser(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID}
	select {
	case h.register <- c:
	case <-h.stop:
		conn.Close()
		return errHubStopped
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// readPump only keeps the connection alive; clients do not send commands.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error for user %d: %v", c.userID, err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
