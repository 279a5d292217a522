package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/middleware"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a customer account and logs it in.
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	res, err := ac.auth.Register(c.Request().Context(), req, c.RealIP())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Registration successful", res)
}

func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	res, err := ac.auth.Login(c.Request().Context(), req, c.RealIP())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Login successful", res)
}

// Logout blacklists the presented token until it expires.
func (ac *AuthController) Logout(c echo.Context) error {
	token, exp, ok := middleware.RawToken(c)
	if !ok {
		return failure(c, &services.DomainError{Kind: services.ErrUnauthorized, Msg: "Unauthorized"})
	}
	if err := ac.auth.Logout(c.Request().Context(), token, exp, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) Me(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	u, err := ac.auth.Me(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", u)
}

// UpdateProfile changes the caller's name or password.
func (ac *AuthController) UpdateProfile(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.ProfileUpdate
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	u, err := ac.auth.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Profile updated", u)
}

func (ac *AuthController) UpdateFCMToken(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.FCMTokenUpdateRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	if err := ac.auth.SetFCMToken(c.Request().Context(), id, req.FCMToken); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "FCM token updated successfully", nil)
}
