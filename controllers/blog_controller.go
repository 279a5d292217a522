package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type BlogController struct {
	blog *services.BlogService
}

func NewBlogController(blog *services.BlogService) *BlogController {
	return &BlogController{blog: blog}
}

func blogFilter(c echo.Context) models.BlogFilter {
	return models.BlogFilter{
		Status:     models.BlogStatus(c.QueryParam("status")),
		Tag:        c.QueryParam("tag"),
		Search:     c.QueryParam("search"),
		Pagination: pagination(c),
	}
}

// Published lists posts visible on the storefront.
func (bc *BlogController) Published(c echo.Context) error {
	page, err := bc.blog.Published(c.Request().Context(), blogFilter(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

// Read returns a published post by slug and counts the view.
func (bc *BlogController) Read(c echo.Context) error {
	post, err := bc.blog.Read(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", post)
}

func (bc *BlogController) List(c echo.Context) error {
	page, err := bc.blog.List(c.Request().Context(), blogFilter(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (bc *BlogController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	post, err := bc.blog.Get(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", post)
}

func (bc *BlogController) Create(c echo.Context) error {
	var req models.CreateBlogPostRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	post, err := bc.blog.Create(c.Request().Context(), req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Post created successfully", post)
}

func (bc *BlogController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "postId")
	if err != nil {
		return failure(c, err)
	}
	post, err := bc.blog.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Post updated successfully", post)
}

func (bc *BlogController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := bc.blog.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Post deleted successfully", nil)
}
