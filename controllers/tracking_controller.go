package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// TrackingController is the admin cart-tracking surface.
type TrackingController struct {
	tracking *services.TrackingService
}

func NewTrackingController(tracking *services.TrackingService) *TrackingController {
	return &TrackingController{tracking: tracking}
}

type trackingUsers struct {
	Users []models.UserCartSummary `json:"users"`
	Total int                      `json:"total"`
}

// Users lists every user with cart aggregates. A failed query degrades to an
// empty list with success:false so the dashboard keeps rendering.
func (tc *TrackingController) Users(c echo.Context) error {
	hasCart, err := boolQuery(c, "hasCart")
	if err != nil {
		return failure(c, err)
	}
	f := models.TrackingFilter{
		HasCart: hasCart,
		SortBy:  c.QueryParam("sortBy"),
		Order:   c.QueryParam("order"),
	}
	users, err := tc.tracking.ListUsers(c.Request().Context(), f)
	if err != nil {
		logging.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to list users with carts")
		return c.JSON(http.StatusOK, models.Response{
			Status: http.StatusOK,
			Error:  err.Error(),
			Data:   trackingUsers{Users: []models.UserCartSummary{}},
		})
	}
	if users == nil {
		users = []models.UserCartSummary{}
	}
	return success(c, http.StatusOK, "", trackingUsers{Users: users, Total: len(users)})
}

func (tc *TrackingController) UserCart(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return failure(c, err)
	}
	view, err := tc.tracking.UserCart(c.Request().Context(), userID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", view)
}

// RemoveItem drops a line from a user's cart; a missing line is a no-op.
func (tc *TrackingController) RemoveItem(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return failure(c, err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return failure(c, err)
	}
	view, err := tc.tracking.RemoveItem(c.Request().Context(), userID, productID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Item removed from cart", view)
}

func (tc *TrackingController) Stats(c echo.Context) error {
	stats, err := tc.tracking.Stats(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", stats)
}
