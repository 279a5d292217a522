package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// ContentController manages sliders, testimonials, announcements and popular
// categories. The kind comes from the :kind path segment.
type ContentController struct {
	content *services.ContentService
}

func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

func kindOf(c echo.Context) models.ContentKind {
	return models.ContentKind(c.Param("kind"))
}

// Public lists active items ordered by position.
func (cc *ContentController) Public(c echo.Context) error {
	items, err := cc.content.List(c.Request().Context(), kindOf(c), true)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", items)
}

func (cc *ContentController) List(c echo.Context) error {
	items, err := cc.content.List(c.Request().Context(), kindOf(c), false)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", items)
}

func (cc *ContentController) Create(c echo.Context) error {
	var item models.ContentItem
	if err := bind(c, &item); err != nil {
		return failure(c, err)
	}
	created, err := cc.content.Create(c.Request().Context(), kindOf(c), item, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Content created successfully", created)
}

func (cc *ContentController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "itemId")
	if err != nil {
		return failure(c, err)
	}
	item, err := cc.content.Update(c.Request().Context(), kindOf(c), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Content updated successfully", item)
}

func (cc *ContentController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := cc.content.Delete(c.Request().Context(), kindOf(c), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Content deleted successfully", nil)
}
