// Package apperrors defines the closed error taxonomy surfaced by the
// ledger engine and rendered by the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names one entry of the taxonomy. The string value is what the HTTP
// layer renders in the "error" field, so it is part of the API contract.
type Kind string

const (
	KindResourceNotFound Kind = "ResourceNotFoundError"
	KindValidation       Kind = "ValidationError"
	KindAuthorization    Kind = "AuthorizationError"
	KindRateLimit        Kind = "RateLimitExceeded"
	KindMethodNotAllowed Kind = "MethodNotAllowed"
	KindInternal         Kind = "InternalServerError"
	KindUnexpected       Kind = "UnexpectedError"
)

// Error is a failure tagged with exactly one taxonomy kind. Details is only
// populated for validation failures, as a field -> messages map with stable,
// machine-readable field names.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option mutates an Error under construction.
type Option func(*Error)

func WithMessage(message string) Option {
	return func(e *Error) {
		e.Message = message
	}
}

func WithMessagef(format string, args ...any) Option {
	return func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	}
}

// WithError records the underlying cause for errors.Is/As and logging; the
// cause is never rendered to clients.
func WithError(err error) Option {
	return func(e *Error) {
		e.Err = err
	}
}

// WithFieldError appends a message to the named field's detail list.
func WithFieldError(field, message string) Option {
	return func(e *Error) {
		if e.Details == nil {
			e.Details = map[string][]string{}
		}
		e.Details[field] = append(e.Details[field], message)
	}
}

// WithDetails replaces the whole details map.
func WithDetails(details map[string][]string) Option {
	return func(e *Error) {
		e.Details = details
	}
}

func newError(kind Kind, status int, message string, opts []Option) *Error {
	e := &Error{
		Kind:    kind,
		Status:  status,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ResourceNotFound(opts ...Option) *Error {
	return newError(KindResourceNotFound, http.StatusNotFound, "Resource not found", opts)
}

func Validation(opts ...Option) *Error {
	return newError(KindValidation, http.StatusBadRequest, "Request validation failed", opts)
}

func Authorization(opts ...Option) *Error {
	return newError(KindAuthorization, http.StatusUnauthorized, "Unauthorized", opts)
}

func RateLimited(opts ...Option) *Error {
	return newError(KindRateLimit, http.StatusTooManyRequests, "Rate limit exceeded", opts)
}

func MethodNotAllowed(opts ...Option) *Error {
	return newError(KindMethodNotAllowed, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL", opts)
}

func Internal(opts ...Option) *Error {
	return newError(KindInternal, http.StatusInternalServerError, "An unexpected error occurred", opts)
}

func Unexpected(opts ...Option) *Error {
	return newError(KindUnexpected, http.StatusInternalServerError, "An unexpected error occurred", opts)
}

// Classify maps any error onto the taxonomy. Errors already carrying a kind
// pass through unchanged; everything else becomes UnexpectedError.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(WithError(err))
}
