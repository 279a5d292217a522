package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/controllers"
)

// RegisterCategoryRoutes sets up all category-related routes
func RegisterCategoryRoutes(e *echo.Echo, categories *controllers.CategoryController, g Guards) {
	e.GET("/api/categories", categories.Public)

	admin := e.Group("/api/admin/categories", g.admin()...)
	admin.GET("", categories.List)
	admin.POST("", categories.Create)
	admin.PUT("", categories.Update)
	admin.DELETE("", categories.Delete)
	admin.GET("/:id", categories.Get)
	admin.POST("/:id/subcategories", categories.AddSubcategory)
	admin.PUT("/:id/subcategories", categories.UpdateSubcategory)
	admin.DELETE("/:id/subcategories", categories.RemoveSubcategory)
}
