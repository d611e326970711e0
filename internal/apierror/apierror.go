// Package apierror defines the single error taxonomy rendered by the HTTP boundary.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error that knows which HTTP status and client-facing message it maps to.
type Error struct {
	Status  int
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with an explicit status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap builds an Error that keeps the underlying cause for logging.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Invalid is a 400 listing every rejected field.
func Invalid(message string, details []string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Details: details}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Upstream reports a failure of the media host or of a store write.
func Upstream(message string, err error) *Error {
	return Wrap(http.StatusBadGateway, message, err)
}

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "Something went wrong", err)
}

// From extracts an *Error from err's chain, or wraps err as Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	return From(err).Status
}
