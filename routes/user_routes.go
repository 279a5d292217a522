package routes

import (
	"github.com/labstack/echo/v4"
)

// RegisterUserRoutes sets up the customer cart, checkout, orders and support routes
func RegisterUserRoutes(e *echo.Echo, c *Controllers, g Guards) {
	api := e.Group("/api", g.user()...)

	api.GET("/cart", c.Cart.View)
	api.POST("/cart", c.Cart.Add)
	api.PUT("/cart", c.Cart.Set)
	api.DELETE("/cart", c.Cart.Clear)
	api.DELETE("/cart/:productId", c.Cart.Remove)

	api.POST("/checkout", c.Orders.Checkout)
	api.GET("/orders", c.Orders.ListMine)
	api.GET("/orders/:id", c.Orders.Get)
	api.GET("/orders/:id/qr", c.Orders.QRCode)

	api.GET("/support/tickets", c.Tickets.ListMine)
	api.POST("/support/tickets", c.Tickets.Create)
	api.GET("/support/tickets/:id", c.Tickets.Get)
	api.POST("/support/tickets/:id/messages", c.Tickets.AddMessage)
}
