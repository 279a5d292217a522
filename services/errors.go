package services

import (
	"errors"
	"fmt"

	"github.com/HSouheill/storefront_backend/repositories"
)

// Domain errors. Controllers map these to HTTP status codes.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// DomainError carries a user-facing message alongside a sentinel kind.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }
func (e *DomainError) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...interface{}) error {
	return fail(ErrValidation, format, args...)
}

// storeErr translates repository sentinels; what names the missing thing.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fail(ErrNotFound, "%s not found", what)
	case errors.Is(err, repositories.ErrDuplicate):
		return fail(ErrConflict, "%s already exists", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
