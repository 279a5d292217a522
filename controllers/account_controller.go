package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

type AccountController struct {
	accounts *services.AccountService
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func accountFilter(c echo.Context) (models.AccountFilter, error) {
	f := models.AccountFilter{
		Status:      models.AccountStatus(c.QueryParam("status")),
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Game:        c.QueryParam("game"),
		Search:      c.QueryParam("search"),
		Sort:        c.QueryParam("sort"),
		Pagination:  pagination(c),
	}
	var err error
	if f.IsOnSale, err = boolQuery(c, "isOnSale"); err != nil {
		return f, err
	}
	if f.IsFeatured, err = boolQuery(c, "isFeatured"); err != nil {
		return f, err
	}
	if f.IsWeeklyDeal, err = boolQuery(c, "isWeeklyDeal"); err != nil {
		return f, err
	}
	if f.MinPrice, err = floatQuery(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatQuery(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, badRequest("Invalid status")
	}
	return f, nil
}

// PublicList is the storefront catalogue. Status defaults to available.
func (ac *AccountController) PublicList(c echo.Context) error {
	f, err := accountFilter(c)
	if err != nil {
		return failure(c, err)
	}
	if f.Status == "" {
		f.Status = models.AccountAvailable
	}
	if f.Status == models.AccountSuspended {
		return failure(c, badRequest("Invalid status"))
	}
	page, err := ac.accounts.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

// PublicGet hides suspended listings from the storefront.
func (ac *AccountController) PublicGet(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return failure(c, err)
	}
	a, err := ac.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	if a.Status == models.AccountSuspended {
		return failure(c, &services.DomainError{Kind: services.ErrNotFound, Msg: "account not found"})
	}
	return success(c, http.StatusOK, "", a)
}

func (ac *AccountController) List(c echo.Context) error {
	f, err := accountFilter(c)
	if err != nil {
		return failure(c, err)
	}
	page, err := ac.accounts.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

func (ac *AccountController) Create(c echo.Context) error {
	var req models.CreateAccountRequest
	if err := bind(c, &req); err != nil {
		return failure(c, err)
	}
	a, err := ac.accounts.Create(c.Request().Context(), req, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusCreated, "Account created successfully", a)
}

func (ac *AccountController) Update(c echo.Context) error {
	id, patch, err := bindUpdate(c, "accountId")
	if err != nil {
		return failure(c, err)
	}
	a, err := ac.accounts.Update(c.Request().Context(), id, patch, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Account updated successfully", a)
}

func (ac *AccountController) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return failure(c, err)
	}
	if err := ac.accounts.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Account deleted successfully", nil)
}
