package xerrors

import (
	"errors"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict: resource already exists")
	ErrInternal           = errors.New("internal server error")
	ErrRateLimited        = errors.New("too many requests")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientCredit = errors.New("insufficient remaining balance or credits")
)

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
