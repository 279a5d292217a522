package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// AdminController groups the back-office pages that are not resource CRUD:
// dashboard, system logs and site settings.
type AdminController struct {
	dashboard *services.DashboardService
	logs      *services.LogService
	settings  *services.SettingsService
}

func NewAdminController(dashboard *services.DashboardService, logs *services.LogService, settings *services.SettingsService) *AdminController {
	return &AdminController{dashboard: dashboard, logs: logs, settings: settings}
}

func (ac *AdminController) Dashboard(c echo.Context) error {
	stats, err := ac.dashboard.Stats(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", stats)
}

func (ac *AdminController) Logs(c echo.Context) error {
	f := models.LogFilter{
		Level:      models.LogLevel(c.QueryParam("level")),
		Category:   models.LogCategory(c.QueryParam("category")),
		Search:     c.QueryParam("search"),
		Pagination: pagination(c),
	}
	page, err := ac.logs.List(c.Request().Context(), f)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", page)
}

// PurgeLogs deletes logs older than ?before=, or every log without it.
func (ac *AdminController) PurgeLogs(c echo.Context) error {
	before, err := timeQuery(c, "before")
	if err != nil {
		return failure(c, err)
	}
	n, err := ac.logs.Purge(c.Request().Context(), before)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Logs deleted", map[string]int64{"deleted": n})
}

func (ac *AdminController) Settings(c echo.Context) error {
	st, err := ac.settings.Get(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", st)
}

// UpdateSettings merges `{updates}` into the site settings.
func (ac *AdminController) UpdateSettings(c echo.Context) error {
	var body struct {
		Updates models.Patch `json:"updates"`
	}
	if err := bind(c, &body); err != nil {
		return failure(c, err)
	}
	st, err := ac.settings.Update(c.Request().Context(), body.Updates, actor(c))
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "Settings updated successfully", st)
}

func (ac *AdminController) PublicSettings(c echo.Context) error {
	st, err := ac.settings.Public(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, "", st)
}
