package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/storefront_backend/logging"
)

// RequestLogger tags every request with an id, stores a request-scoped
// zerolog logger in the context and logs the outcome.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			l := logging.Logger().With().Str("requestId", id).Logger()
			c.SetRequest(req.WithContext(logging.WithContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			ev := logging.Ctx(c.Request().Context()).Info()
			switch {
			case status >= 500:
				ev = logging.Ctx(c.Request().Context()).Error().Err(err)
			case status >= 400:
				ev = logging.Ctx(c.Request().Context()).Warn()
			}
			ev.Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", status).
				Str("ip", c.RealIP()).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
