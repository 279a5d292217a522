package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
)

// RegisterContentRoutes sets up the blog, site content and public settings
func RegisterContentRoutes(e *echo.Echo, blog *controllers.BlogController, content *controllers.ContentController, admin *controllers.AdminController, g Guards) {
	e.GET("/api/blog", blog.Published)
	e.GET("/api/blog/:slug", blog.Read)
	e.GET("/api/content/:kind", content.Public)
	e.GET("/api/settings/public", admin.PublicSettings)

	adminBlog := e.Group("/api/admin/blog", g.admin()...)
	adminBlog.GET("", blog.List)
	adminBlog.GET("/:id", blog.Get)
	adminBlog.POST("", blog.Create)
	adminBlog.PUT("", blog.Update)
	adminBlog.DELETE("", blog.Delete)

	adminContent := e.Group("/api/admin/content/:kind", g.admin()...)
	adminContent.GET("", content.List)
	adminContent.POST("", content.Create)
	adminContent.PUT("", content.Update)
	adminContent.DELETE("", content.Delete)
}
