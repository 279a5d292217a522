package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/middleware"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/services"
)

// CustomValidator plugs go-playground/validator into echo.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func badRequest(msg string) error {
	return &services.DomainError{Kind: services.ErrValidation, Msg: msg}
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Success: true,
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// failure writes the error envelope. Unexpected errors are logged with the
// request logger; domain errors are the caller's fault and are not.
func failure(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = "Internal server error"
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: msg,
		Error:   msg,
	})
}

// bind decodes the body into dst and runs struct validation.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return badRequest("Invalid request body")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(dst); err != nil {
			return badRequest(validationMessage(err))
		}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// bindUpdate reads a `{<idKey>, updates}` body.
func bindUpdate(c echo.Context, idKey string) (primitive.ObjectID, models.Patch, error) {
	var body map[string]json.RawMessage
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return primitive.NilObjectID, nil, badRequest("Invalid request body")
	}
	var hex string
	if raw, ok := body[idKey]; ok {
		if err := json.Unmarshal(raw, &hex); err != nil {
			return primitive.NilObjectID, nil, badRequest(idKey + " must be a string")
		}
	}
	if hex == "" {
		hex = c.QueryParam("id")
	}
	id, err := parseID(hex, idKey)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	var patch models.Patch
	if raw, ok := body["updates"]; ok {
		if err := json.Unmarshal(raw, &patch); err != nil {
			return primitive.NilObjectID, nil, badRequest("updates must be an object")
		}
	}
	if len(patch) == 0 {
		return primitive.NilObjectID, nil, badRequest("updates must not be empty")
	}
	return id, patch, nil
}

func parseID(hex, name string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, badRequest(name + " is required")
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, badRequest("Invalid " + name)
	}
	return id, nil
}

func paramID(c echo.Context, name string) (primitive.ObjectID, error) {
	return parseID(c.Param(name), name)
}

// queryID reads the `?id=` used by DELETE endpoints.
func queryID(c echo.Context) (primitive.ObjectID, error) {
	return parseID(c.QueryParam("id"), "id")
}

func pagination(c echo.Context) models.Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return models.Pagination{Page: page, Limit: limit}.Normalize()
}

func boolQuery(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badRequest(name + " must be true or false")
	}
	return &v, nil
}

func floatQuery(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badRequest(name + " must be a number")
	}
	return &v, nil
}

func timeQuery(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, badRequest(name + " must be a date")
}

// actor identifies the caller for audit entries and ownership checks.
func actor(c echo.Context) services.Actor {
	id, _ := middleware.CurrentUserID(c)
	return services.Actor{UserID: id, Role: middleware.CurrentRole(c), IP: c.RealIP()}
}

// currentUser is the authenticated user's id or a 401.
func currentUser(c echo.Context) (primitive.ObjectID, error) {
	id, err := middleware.CurrentUserID(c)
	if err != nil {
		return primitive.NilObjectID, &services.DomainError{Kind: services.ErrUnauthorized, Msg: "Unauthorized"}
	}
	return id, nil
}
