package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
)

// RegisterAccountRoutes sets up the public catalogue and listing management
func RegisterAccountRoutes(e *echo.Echo, accounts *controllers.AccountController, g Guards) {
	e.GET("/api/accounts", accounts.PublicList)
	e.GET("/api/accounts/:id", accounts.PublicGet)

	admin := e.Group("/api/admin/accounts", g.admin()...)
	admin.GET("", accounts.List)
	admin.POST("", accounts.Create)
	admin.PUT("", accounts.Update)
	admin.DELETE("", accounts.Delete)
}
