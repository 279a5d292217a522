package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// CartController serves the caller's own cart.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) View(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	view, err := cc.carts.View(c.Request().Context(), userID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", view)
}

// Add increments the quantity of a listing, adding the line if needed.
func (cc *CartController) Add(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.CartItemRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	view, err := cc.carts.Add(c.Request().Context(), userID, req)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Item added to cart", view)
}

// Set replaces a line's quantity; zero removes it.
func (cc *CartController) Set(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.CartItemRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	view, err := cc.carts.Set(c.Request().Context(), userID, req)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Cart updated", view)
}

func (cc *CartController) Remove(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return failure(c, err)
	}
	view, err := cc.carts.Remove(c.Request().Context(), userID, productID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Item removed from cart", view)
}

func (cc *CartController) Clear(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	view, err := cc.carts.Clear(c.Request().Context(), userID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Cart cleared", view)
}
