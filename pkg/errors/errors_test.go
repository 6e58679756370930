package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrValidation, "quantity must be positive")

	assert.Equal(t, ErrValidation, err.Code)
	assert.Equal(t, "quantity must be positive", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	t.Run("wraps cause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := Wrap(cause, ErrUnavailable, "Failed to load products")

		assert.Equal(t, ErrUnavailable, err.Code)
		assert.Equal(t, "Failed to load products: connection refused", err.Error())
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrInternal, "ignored"))
	})
}

func TestIs(t *testing.T) {
	err := New(ErrForbidden, "Access denied")

	assert.True(t, stderrors.Is(err, New(ErrForbidden, "different message")))
	assert.False(t, stderrors.Is(err, New(ErrNotFound, "Access denied")))
}

func TestWithDetails(t *testing.T) {
	base := New(ErrValidation, "Invalid category")
	detailed := base.WithDetails("category=kitchen")

	assert.Equal(t, "category=kitchen", detailed.Details)
	// Исходная ошибка не изменяется
	assert.Empty(t, base.Details)
}

func TestFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrInternal},
		{http.StatusBadGateway, ErrInternal},
		{http.StatusTeapot, ErrInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromHTTPStatus(tt.status), "status %d", tt.status)
	}
}

func TestGetUserMessage(t *testing.T) {
	t.Run("explicit message wins", func(t *testing.T) {
		err := New(ErrNotFound, "Product not found")
		assert.Equal(t, "Product not found", err.GetUserMessage())
	})

	t.Run("generic message by code", func(t *testing.T) {
		require.Equal(t, "Not authorized", (&Error{Code: ErrUnauthorized}).GetUserMessage())
		require.Equal(t, "Access denied", (&Error{Code: ErrForbidden}).GetUserMessage())
		require.Equal(t, "Internal error", (&Error{Code: ErrInternal}).GetUserMessage())
	})

	t.Run("nil error", func(t *testing.T) {
		var err *Error
		assert.Equal(t, "", err.GetUserMessage())
	})
}
