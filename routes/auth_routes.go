package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
)

// RegisterAuthRoutes sets up registration, login and profile routes
func RegisterAuthRoutes(e *echo.Echo, auth *controllers.AuthController, g Guards) {
	e.POST("/api/auth/register", auth.Register)
	e.POST("/api/auth/login", auth.Login)

	protected := e.Group("/api", g.user()...)
	protected.POST("/auth/logout", auth.Logout)
	protected.GET("/auth/me", auth.Me)
	protected.PUT("/users/me", auth.UpdateProfile)
	protected.POST("/users/fcm-token", auth.UpdateFCMToken)
}
