// Package middlewarectx содержит HTTP middleware для аутентификации запросов.
//
// AuthMiddleware проверяет наличие bearer-токена в заголовке Authorization,
// разрешает его в пользователя через хранилище токенов и кладёт пользователя
// в контекст запроса для дальнейшего использования в обработчиках.
//
// Отсутствующий, неизвестный или истёкший токен приводит к HTTP 403,
// деактивированный пользователь — к HTTP 400.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CurrentUser — ключ, под которым в контексте лежит *models.User вызывающего.
const CurrentUser Key = "current_user"

// Service описывает интерфейс разрешения токена сессии в пользователя.
type Service interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext возвращает аутентифицированного пользователя запроса.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok
}

// AuthMiddleware возвращает HTTP middleware, который разрешает bearer-токен
// в пользователя и кладёт его в контекст запроса.
func AuthMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			if !user.IsActive {
				log.Error("inactive user", slog.Int("user_id", user.ID))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("inactive user"))
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
