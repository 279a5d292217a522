package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// TicketController serves support tickets to customers and to admins.
type TicketController struct {
	tickets *services.TicketService
}

func NewTicketController(tickets *services.TicketService) *TicketController {
	return &TicketController{tickets: tickets}
}

func (tc *TicketController) Create(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	var req models.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	t, err := tc.tickets.Create(c.Request().Context(), userID, req)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Ticket created successfully", t)
}

func ticketFilter(c echo.Context) models.TicketFilter {
	return models.TicketFilter{
		Status:     models.TicketStatus(c.QueryParam("status")),
		Priority:   models.TicketPriority(c.QueryParam("priority")),
		Search:     c.QueryParam("search"),
		Pagination: pagination(c),
	}
}

// ListMine lists the caller's own tickets.
func (tc *TicketController) ListMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	f := ticketFilter(c)
	f.UserID = userID
	page, err := tc.tickets.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (tc *TicketController) List(c echo.Context) error {
	page, err := tc.tickets.List(c.Request().Context(), ticketFilter(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (tc *TicketController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	t, err := tc.tickets.Get(c.Request().Context(), id, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", t)
}

// AddMessage appends to the thread. Admin replies email the customer.
func (tc *TicketController) AddMessage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	var req models.TicketMessageRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	t, err := tc.tickets.AddMessage(c.Request().Context(), id, req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Message added", t)
}

func (tc *TicketController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "ticketId")
	if err != nil {
		return failure(c, err)
	}
	t, err := tc.tickets.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Ticket updated successfully", t)
}

func (tc *TicketController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := tc.tickets.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Ticket deleted successfully", nil)
}
