package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("login: %w", NewUnauthorized("Invalid Password"))
	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, "Invalid Password", de.Message)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, "Cannot GET /nope", de.Message)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("connection reset")
	de = ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewConflict("User already exists"), "CONFLICT"))
	assert.False(t, IsCode(NewConflict("User already exists"), "NOT_FOUND"))
	assert.False(t, IsCode(errors.New("plain"), "CONFLICT"))
}
