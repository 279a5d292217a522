package routes

import (
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutes sets up cart tracking, users, orders, support and
// back-office pages. Every route requires the admin role.
func RegisterAdminRoutes(e *echo.Echo, c *Controllers, g Guards) {
	admin := e.Group("/api/admin", g.admin()...)

	tracking := admin.Group("/cart-tracking")
	tracking.GET("/users", c.Tracking.Users)
	tracking.GET("/users/:userId/cart", c.Tracking.UserCart)
	tracking.DELETE("/users/:userId/cart/:productId", c.Tracking.RemoveItem)
	tracking.POST("/notify", c.Notifications.SendCartReminder)
	tracking.GET("/stats", c.Tracking.Stats)
	if c.WebSocket != nil {
		tracking.GET("/live", c.WebSocket.CartTrackingLive)
	}

	admin.GET("/users", c.Users.List)
	admin.GET("/users/:id", c.Users.Get)
	admin.POST("/users", c.Users.Create)
	admin.PUT("/users", c.Users.Update)
	admin.DELETE("/users", c.Users.Delete)

	admin.GET("/orders", c.Orders.List)
	admin.GET("/orders/:id", c.Orders.Get)
	admin.PUT("/orders", c.Orders.Update)
	admin.DELETE("/orders", c.Orders.Delete)

	admin.GET("/support", c.Tickets.List)
	admin.GET("/support/:id", c.Tickets.Get)
	admin.POST("/support/:id/messages", c.Tickets.AddMessage)
	admin.PUT("/support", c.Tickets.Update)
	admin.DELETE("/support", c.Tickets.Delete)

	admin.GET("/dashboard", c.Admin.Dashboard)
	admin.GET("/logs", c.Admin.Logs)
	admin.DELETE("/logs", c.Admin.PurgeLogs)
	admin.GET("/settings", c.Admin.Settings)
	admin.PUT("/settings", c.Admin.UpdateSettings)
}
