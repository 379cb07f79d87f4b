package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_Touch(t *testing.T) {
	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first update stamps now", func(t *testing.T) {
		p := &Post{PublishedAt: published}
		now := published.Add(time.Hour)
		p.Touch(now)
		require.NotNil(t, p.UpdatedAt)
		assert.Equal(t, now, *p.UpdatedAt)
	})

	t.Run("never before published", func(t *testing.T) {
		p := &Post{PublishedAt: published}
		p.Touch(published.Add(-time.Hour))
		require.NotNil(t, p.UpdatedAt)
		assert.Equal(t, published, *p.UpdatedAt)
	})

	t.Run("never before previous update", func(t *testing.T) {
		prev := published.Add(48 * time.Hour)
		p := &Post{PublishedAt: published, UpdatedAt: &prev}
		p.Touch(published.Add(24 * time.Hour))
		require.NotNil(t, p.UpdatedAt)
		assert.Equal(t, prev, *p.UpdatedAt)
	})
}

func TestPost_AuthorName(t *testing.T) {
	assert.Equal(t, "", (&Post{}).AuthorName())
	assert.Equal(t, "Jesus Christ", (&Post{Author: &Author{Firstname: "Jesus", Lastname: "Christ"}}).AuthorName())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", NewPostNotFoundError(7), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", NewPostNotFoundError(7)), http.StatusNotFound},
		{"validation", NewValidationError("bad"), http.StatusUnprocessableEntity},
		{"internal", NewInternalError(errors.New("db down")), http.StatusInternalServerError},
		{"fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Post not found.", PublicMessage(NewPostNotFoundError(1)))
	assert.NotContains(t, PublicMessage(NewInternalError(errors.New("password=hunter2"))), "hunter2")
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NewNotFoundError("gone"))))
	assert.False(t, IsNotFound(errors.New("gone")))
}
