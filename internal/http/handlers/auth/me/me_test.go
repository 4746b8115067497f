package me

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/models"
)

func TestMeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("возвращает профиль из контекста", func(t *testing.T) {
		user := &models.User{
			ID:       7,
			Email:    "user@example.com",
			Role:     models.RoleClient,
			IsActive: true,
			Groups:   []models.Group{{ID: 1, Region: "north"}},
		}

		handler := New(logger)
		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.CurrentUser, user))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"user@example.com"`)
		assert.Contains(t, w.Body.String(), `"region":"north"`)
		// Хэш пароля наружу не уходит
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("без пользователя в контексте", func(t *testing.T) {
		handler := New(logger)
		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
