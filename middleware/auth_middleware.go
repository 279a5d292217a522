// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
)

// RequireRole allows the request through when the caller has one of roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := CurrentRole(c)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			logging.Ctx(c.Request().Context()).Warn().
				Str("role", string(role)).
				Str("path", c.Path()).
				Msg("access denied")
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}

// RequireAdmin is RequireRole(models.RoleAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
