// Package apperror defines the application error taxonomy and its mapping to
// HTTP status codes.  Services return *AppError values; handlers render them
// as {"error": message} without exposing the wrapped cause.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// InternalError covers store, signing and any unexpected failure.
	InternalError ErrorType = iota
	// ValidationError represents missing or malformed input.
	ValidationError
	// AuthError represents bad credentials or a missing, invalid or expired session.
	AuthError
	// NotFoundError represents a missing user row.
	NotFoundError
	// ConflictError represents a duplicate email on signup.
	ConflictError
)

// AppError is the error type returned by the service layer.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // underlying cause, never sent to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts the error into its client-facing payload.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

func New(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return New(ValidationError, message, nil)
}

func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

// From returns the *AppError in err's chain.  Anything else is reported as an
// internal error with a generic message.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Server error", err)
}

// Is reports whether err carries an AppError of type t.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
