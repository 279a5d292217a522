package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// SendCartReminder stores a cart reminder and fans it out to the user's
// channels. The response lists the channels that delivered.
func (nc *NotificationController) SendCartReminder(c echo.Context) error {
	var req models.SendNotificationRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	n, err := nc.notifications.SendCartReminder(c.Request().Context(), req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Notification sent successfully", n)
}

func (nc *NotificationController) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	items, err := nc.notifications.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", items)
}

func (nc *NotificationController) MarkRead(c echo.Context) error {
	return nc.mark(c, nc.notifications.MarkRead)
}

func (nc *NotificationController) MarkClicked(c echo.Context) error {
	return nc.mark(c, nc.notifications.MarkClicked)
}

func (nc *NotificationController) mark(c echo.Context, fn func(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	n, err := fn(c.Request().Context(), id, userID)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", n)
}
