package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout turns the cart, or the explicit items, into one order per line.
func (oc *OrderController) Checkout(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.CheckoutRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	res, err := oc.orders.Checkout(c.Request().Context(), userID, req, c.RealIP())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Checkout successful", res)
}

func (oc *OrderController) ListMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	page, err := oc.orders.ListMine(c.Request().Context(), userID, pagination(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

// Get returns an order to its owner or to an admin.
func (oc *OrderController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	o, err := oc.orders.Get(c.Request().Context(), id, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", o)
}

// QRCode renders the order number as a PNG.
func (oc *OrderController) QRCode(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	png, err := oc.orders.QRCode(c.Request().Context(), id, actor(c))
	if err != nil {
		return failure(c, err)
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", png)
}

func (oc *OrderController) List(c echo.Context) error {
	f := models.OrderFilter{
		Status:        models.OrderStatus(c.QueryParam("status")),
		PaymentStatus: models.PaymentStatus(c.QueryParam("paymentStatus")),
		Search:        c.QueryParam("search"),
		Pagination:    pagination(c),
	}
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := parseID(raw, "userId")
		if err != nil {
			return failure(c, err)
		}
		f.UserID = id
	}
	page, err := oc.orders.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (oc *OrderController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "orderId")
	if err != nil {
		return failure(c, err)
	}
	o, err := oc.orders.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Order updated successfully", o)
}

func (oc *OrderController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := oc.orders.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Order deleted successfully", nil)
}
