// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/security"
)

// Context keys set after a token is accepted.
const (
	userKey   = "user"
	userIDKey = "userId"
	roleKey   = "role"
	emailKey  = "email"
)

var errTokenRevoked = errors.New("token has been revoked")

// JWTMiddleware validates Bearer tokens (or ?token= for websocket upgrades)
// and rejects tokens revoked at logout.
func JWTMiddleware(tokens *security.TokenManager, blacklist *security.Blacklist) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		ContextKey:  userKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ",query:token",
		ParseTokenFunc: func(auth string, c echo.Context) (interface{}, error) {
			token, _, err := tokens.Parse(auth)
			if err != nil {
				return nil, err
			}
			if blacklist != nil && blacklist.IsRevoked(c.Request().Context(), auth) {
				return nil, errTokenRevoked
			}
			return token, nil
		},
		SuccessHandler: func(c echo.Context) {
			claims := ClaimsFrom(c)
			if claims == nil {
				return
			}
			c.Set(userIDKey, claims.UserID)
			c.Set(roleKey, claims.Role)
			c.Set(emailKey, claims.Email)

			l := logging.Ctx(c.Request().Context()).With().Str("userId", claims.UserID).Logger()
			c.SetRequest(c.Request().WithContext(logging.WithContext(c.Request().Context(), l)))
		},
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			msg := "Please provide valid credentials"
			if errors.Is(err, errTokenRevoked) {
				msg = "Token has been invalidated"
			}
			logging.Ctx(c.Request().Context()).Debug().Err(err).Str("path", c.Path()).Msg("jwt rejected")
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: msg,
			})
		},
	})
}

// ClaimsFrom returns the accepted token's claims, or nil.
func ClaimsFrom(c echo.Context) *security.Claims {
	token, ok := c.Get(userKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*security.Claims)
	return claims
}

// RawToken returns the accepted token string and its expiry.
func RawToken(c echo.Context) (string, time.Time, bool) {
	token, ok := c.Get(userKey).(*jwt.Token)
	if !ok {
		return "", time.Time{}, false
	}
	claims, ok := token.Claims.(*security.Claims)
	if !ok {
		return "", time.Time{}, false
	}
	return token.Raw, time.Unix(claims.ExpiresAt, 0), true
}

// CurrentUserID is the authenticated user's id.
func CurrentUserID(c echo.Context) (primitive.ObjectID, error) {
	hex, _ := c.Get(userIDKey).(string)
	if hex == "" {
		return primitive.NilObjectID, errors.New("not authenticated")
	}
	return primitive.ObjectIDFromHex(hex)
}

// CurrentRole is the authenticated user's role, empty for anonymous requests.
func CurrentRole(c echo.Context) models.Role {
	role, _ := c.Get(roleKey).(models.Role)
	return role
}

// ActivityToucher records that a user made a request.
type ActivityToucher interface {
	TouchActivity(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// ActivityTracker updates lastActivityAt and isOnline in the background for
// authenticated requests. It must run after JWTMiddleware.
func ActivityTracker(users ActivityToucher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := CurrentUserID(c)
			if err != nil {
				return next(c)
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := users.TouchActivity(ctx, id, time.Now().UTC()); err != nil {
					logging.Warn().Err(err).Str("userId", id.Hex()).Msg("failed to record activity")
				}
			}()
			return next(c)
		}
	}
}
