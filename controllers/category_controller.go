package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// Public lists active categories, optionally of one type.
func (cc *CategoryController) Public(c echo.Context) error {
	items, err := cc.categories.Public(c.Request().Context(), models.CategoryType(c.QueryParam("type")))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", items)
}

func (cc *CategoryController) List(c echo.Context) error {
	f := models.CategoryFilter{
		Type:   models.CategoryType(c.QueryParam("type")),
		Status: models.CategoryStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
	}
	items, err := cc.categories.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", items)
}

func (cc *CategoryController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.Get(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", cat)
}

func (cc *CategoryController) Create(c echo.Context) error {
	var req models.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.Create(c.Request().Context(), req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Category created successfully", cat)
}

func (cc *CategoryController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "categoryId")
	if err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Category updated successfully", cat)
}

func (cc *CategoryController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := cc.categories.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Category deleted successfully", nil)
}

func (cc *CategoryController) AddSubcategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	var req models.CreateSubcategoryRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.AddSubcategory(c.Request().Context(), id, req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Subcategory added successfully", cat)
}

func (cc *CategoryController) UpdateSubcategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	subID, patch, err := bindUpdate(c, "subcategoryId")
	if err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.UpdateSubcategory(c.Request().Context(), id, subID, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Subcategory updated successfully", cat)
}

func (cc *CategoryController) RemoveSubcategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	subID, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	cat, err := cc.categories.RemoveSubcategory(c.Request().Context(), id, subID, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Subcategory removed successfully", cat)
}
