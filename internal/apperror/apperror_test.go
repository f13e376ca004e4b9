package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("Missing plan"), http.StatusBadRequest},
		{NewAuthError("Invalid credentials", nil), http.StatusUnauthorized},
		{NewNotFoundError("No user found", nil), http.StatusNotFound},
		{NewConflictError("Email already registered", nil), http.StatusConflict},
		{NewInternalError("Server error", errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestResponseHidesCause(t *testing.T) {
	err := NewInternalError("Server error", errors.New("pq: connection refused"))

	assert.Equal(t, "Server error: pq: connection refused", err.Error())
	assert.Equal(t, ErrorResponse{Error: "Server error"}, err.ToResponse())
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("signup: %w", NewConflictError("Email already registered", nil))
	assert.Equal(t, ConflictError, From(wrapped).Type)
	assert.True(t, Is(wrapped, ConflictError))

	plain := From(errors.New("boom"))
	assert.Equal(t, InternalError, plain.Type)
	assert.Equal(t, "Server error", plain.Message)
	assert.False(t, Is(errors.New("boom"), NotFoundError))
}
