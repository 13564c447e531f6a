// Package apperr maps domain failures onto the HTTP status taxonomy shared by
// every endpoint.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrPaymentRequired = errors.New("payment required")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
	ErrInternal        = errors.New("internal error")
)

// Error carries a user-visible message alongside a taxonomy sentinel.
type Error struct {
	Kind    error
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }
func RateLimited(msg string) error { return &Error{Kind: ErrRateLimited, Message: msg} }
func PaymentRequired(msg string) error { return &Error{Kind: ErrPaymentRequired, Message: msg} }

// Internal wraps an unexpected failure. Details are exposed to the caller the
// same way the hosted functions did.
func Internal(msg string, err error) error {
	e := &Error{Kind: ErrInternal, Message: msg, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the public message for err. Errors outside the taxonomy
// surface their own text, matching how the functions reported thrown errors.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Details returns the optional detail string attached to an internal error.
func Details(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Details
	}
	return ""
}
