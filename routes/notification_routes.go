package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
	"github.com/HSouheill/storefront_backend/websocket"
)

// RegisterNotificationRoutes registers the customer inbox and the realtime socket
func RegisterNotificationRoutes(e *echo.Echo, notifications *controllers.NotificationController, ws *websocket.Handler, g Guards) {
	api := e.Group("/api", g.user()...)
	api.GET("/notifications", notifications.List)
	api.POST("/notifications/:id/read", notifications.MarkRead)
	api.POST("/notifications/:id/click", notifications.MarkClicked)

	if ws != nil {
		// Browsers cannot set headers on upgrade requests, so the token comes as ?token=.
		e.GET("/api/ws", ws.Notifications, g.JWT)
	}
}
