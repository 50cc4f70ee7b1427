package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

// Kinds. Every error a service returns on purpose wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = auth.ErrForbidden
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials  error = &Error{Kind: ErrUnauthorized, Message: "invalid username or password"}
	ErrInvalidRefreshToken error = &Error{Kind: ErrUnauthorized, Message: "invalid or expired refresh token"}
)

// Error carries a client-facing message next to its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// translate turns storage errors into kinds; what names the entity in messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return newError(ErrNotFound, "%s not found", what)
	case errors.Is(err, repo.ErrDuplicate):
		return newError(ErrConflict, "%s already exists", what)
	case errors.Is(err, repo.ErrInUse):
		return newError(ErrConflict, "%s is still referenced", what)
	case errors.Is(err, repo.ErrCategoryNotFound):
		return newError(ErrNotFound, "category not found")
	case errors.Is(err, repo.ErrProductNotFound):
		return newError(ErrNotFound, "product not found")
	case errors.Is(err, auth.ErrForbidden):
		return newError(ErrForbidden, "insufficient permissions")
	}
	return err
}
