package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/middleware"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// NewUpgrader accepts browser origins from the CORS allow list. An empty list
// or "*" allows any origin.
func NewUpgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || origin == "" {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// Handler serves the customer notification socket and the admin live
// cart-tracking feed.
type Handler struct {
	hub      *Hub
	tracking services.Snapshotter
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tracking services.Snapshotter, interval time.Duration, origins []string) *Handler {
	return &Handler{
		hub:      hub,
		tracking: tracking,
		interval: interval,
		upgrader: NewUpgrader(origins),
	}
}

// Notifications registers the authenticated user's socket with the hub and
// keeps it open until the client goes away.
func (h *Handler) Notifications(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Status: http.StatusUnauthorized, Message: "Unauthorized"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Ctx(c.Request().Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	client := newClient(userID, conn)
	if err := h.hub.Register(c.Request().Context(), client); err != nil {
		conn.Close()
		return nil
	}
	defer h.hub.Unregister(client)

	if err := client.WriteJSON(Message{
		Type:    MessageTypeConnected,
		Message: "WebSocket connection established",
		UserID:  userID.Hex(),
	}); err != nil {
		return nil
	}

	stop := make(chan struct{})
	defer close(stop)
	go keepAlive(client, stop)

	// Inbound frames are ignored; reading drives pong handling and close detection.
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Str("userId", userID.Hex()).Msg("notification socket closed")
			}
			return nil
		}
	}
}

// CartTrackingLive streams tracking snapshots to an admin. Each connection owns
// one poller; filter messages from the client trigger an immediate refresh and
// closing the socket stops the poller.
func (h *Handler) CartTrackingLive(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Ctx(c.Request().Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	adminID, _ := middleware.CurrentUserID(c)
	client := newClient(adminID, conn)
	defer conn.Close()

	metrics.WebsocketConnections.WithLabelValues("cart_tracking").Inc()
	defer metrics.WebsocketConnections.WithLabelValues("cart_tracking").Dec()

	ctx, cancel := context.WithCancel(context.Background())
	poller := services.NewPoller(h.tracking, h.interval, func(s models.TrackingSnapshot) error {
		return client.WriteJSON(s)
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		keepAlive(client, ctx.Done())
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var q services.LiveQuery
		if err := json.Unmarshal(data, &q); err != nil {
			// Malformed frame: report it and keep the feed running.
			client.WriteJSON(Message{Type: MessageTypeError, Message: "invalid query"})
			continue
		}
		poller.Update(q)
	}
}

func keepAlive(c *Client, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

