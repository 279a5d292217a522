package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// UserController is the admin user management surface.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) List(c echo.Context) error {
	f := models.UserFilter{
		Role:       models.Role(c.QueryParam("role")),
		Status:     models.UserStatus(c.QueryParam("status")),
		Search:     c.QueryParam("search"),
		Pagination: pagination(c),
	}
	page, err := uc.users.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (uc *UserController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	u, err := uc.users.Get(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", u)
}

func (uc *UserController) Create(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	u, err := uc.users.Create(c.Request().Context(), req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "User created successfully", u)
}

// Update applies `{userId, updates}`; balance changes are audited as payments.
func (uc *UserController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "userId")
	if err != nil {
		return failure(c, err)
	}
	u, err := uc.users.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "User updated successfully", u)
}

func (uc *UserController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := uc.users.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "User deleted successfully", nil)
}
