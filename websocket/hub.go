package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types sent over the notification socket.
const (
	MessageTypeConnected = "connected"
	MessageTypeError     = "error"
)

// ErrNotConnected is returned by SendToUser when the user has no open socket.
var ErrNotConnected = errors.New("user not connected")

// Message is a control frame on either socket.
type Message struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userId,omitempty"`
}

// Client is one open socket. Writes are serialized because gorilla
// connections support a single concurrent writer.
type Client struct {
	UserID primitive.ObjectID
	conn   *websocket.Conn
	wmu    sync.Mutex
}

func newClient(userID primitive.ObjectID, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

// WriteJSON sends v as a text frame.
func (c *Client) WriteJSON(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *Client) ping() error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks notification sockets by user. A user may have several tabs open.
type Hub struct {
	mu         sync.RWMutex
	clients    map[primitive.ObjectID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) String() string { return "websocket-hub" }

// Serve runs the registration loop until ctx is done, then closes every
// socket still open.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			metrics.WebsocketConnections.WithLabelValues("notifications").Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.UserID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					metrics.WebsocketConnections.WithLabelValues("notifications").Dec()
				}
				if len(set) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
			client.conn.Close()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for client := range set {
			client.conn.Close()
			metrics.WebsocketConnections.WithLabelValues("notifications").Dec()
		}
		delete(h.clients, id)
	}
}

// Register adds a client. It fails if the hub is not serving before ctx ends.
func (h *Hub) Register(ctx context.Context, c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister removes a client and closes its connection.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-time.After(writeWait):
		c.conn.Close()
	}
}

// IsConnected reports whether the user has at least one open socket.
func (h *Hub) IsConnected(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Connections counts open notification sockets.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// SendToUser writes message to every socket of the user. It succeeds if at
// least one write succeeds.
func (h *Hub) SendToUser(userID primitive.ObjectID, message interface{}) error {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return ErrNotConnected
	}
	var lastErr error
	sent := 0
	for _, c := range targets {
		if err := c.WriteJSON(message); err != nil {
			lastErr = err
			logging.Debug().Err(err).Str("userId", userID.Hex()).Msg("websocket write failed")
			continue
		}
		sent++
	}
	if sent == 0 {
		return lastErr
	}
	return nil
}
