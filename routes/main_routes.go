package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
	"github.com/HSouheill/storefront_backend/middleware"
	"github.com/HSouheill/storefront_backend/websocket"
)

// Controllers bundles every handler the API exposes.
type Controllers struct {
	Auth          *controllers.AuthController
	Accounts      *controllers.AccountController
	Categories    *controllers.CategoryController
	Users         *controllers.UserController
	Cart          *controllers.CartController
	Orders        *controllers.OrderController
	Notifications *controllers.NotificationController
	Tracking      *controllers.TrackingController
	Tickets       *controllers.TicketController
	Blog          *controllers.BlogController
	Content       *controllers.ContentController
	Admin         *controllers.AdminController
	WebSocket     *websocket.Handler
}

// Guards are the middleware chains for authenticated and admin routes.
type Guards struct {
	JWT      echo.MiddlewareFunc
	Activity echo.MiddlewareFunc
}

func (g Guards) user() []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{g.JWT}
	if g.Activity != nil {
		chain = append(chain, g.Activity)
	}
	return chain
}

func (g Guards) admin() []echo.MiddlewareFunc {
	return append(g.user(), middleware.RequireAdmin())
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, c *Controllers, g Guards) {
	RegisterAuthRoutes(e, c.Auth, g)
	RegisterAccountRoutes(e, c.Accounts, g)
	RegisterCategoryRoutes(e, c.Categories, g)
	RegisterContentRoutes(e, c.Blog, c.Content, c.Admin, g)
	RegisterUserRoutes(e, c, g)
	RegisterNotificationRoutes(e, c.Notifications, c.WebSocket, g)
	RegisterAdminRoutes(e, c, g)
}
