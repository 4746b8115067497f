// Package classifiedsboard предоставляет маршруты для основного приложения.
package classifiedsboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adcreate "github.com/maratbr/classifieds-board/internal/http/handlers/advertisement/create"
	adlist "github.com/maratbr/classifieds-board/internal/http/handlers/advertisement/list"
	adread "github.com/maratbr/classifieds-board/internal/http/handlers/advertisement/read"
	adremove "github.com/maratbr/classifieds-board/internal/http/handlers/advertisement/remove"
	adupdate "github.com/maratbr/classifieds-board/internal/http/handlers/advertisement/update"
	"github.com/maratbr/classifieds-board/internal/http/handlers/auth/login"
	"github.com/maratbr/classifieds-board/internal/http/handlers/auth/me"
	"github.com/maratbr/classifieds-board/internal/http/handlers/feed"
	"github.com/maratbr/classifieds-board/internal/http/handlers/health"
	usercreate "github.com/maratbr/classifieds-board/internal/http/handlers/user/create"
	userlist "github.com/maratbr/classifieds-board/internal/http/handlers/user/list"
	userread "github.com/maratbr/classifieds-board/internal/http/handlers/user/read"
	userremove "github.com/maratbr/classifieds-board/internal/http/handlers/user/remove"
	userupdate "github.com/maratbr/classifieds-board/internal/http/handlers/user/update"
	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/models"
	advertisementservice "github.com/maratbr/classifieds-board/internal/services/advertisement"
	authservice "github.com/maratbr/classifieds-board/internal/services/auth"
	userservice "github.com/maratbr/classifieds-board/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Семейства advertisements и drafts обслуживаются одними и теми же
// обработчиками: маршрут задаёт состояние записей, с которыми работает ручка.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, userService *userservice.UserService, advertisementService *advertisementservice.AdvertisementService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Get("/", feed.New(logger, advertisementService).ServeHTTP)
	r.Post("/auth", login.New(logger, authService).ServeHTTP)
	r.Get("/health", health.New(logger).ServeHTTP)

	// Группа с аутентификацией по bearer-токену
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Get("/user/me", me.New(logger).ServeHTTP)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", usercreate.New(logger, userService).ServeHTTP)
			r.Get("/", userlist.New(logger, userService).ServeHTTP)
			r.Get("/{user_id}", userread.New(logger, userService).ServeHTTP)
			r.Put("/{user_id}", userupdate.New(logger, userService).ServeHTTP)
			r.Delete("/{user_id}", userremove.New(logger, userService).ServeHTTP)

			r.Route("/{user_id}/advertisements", advertisementRoutes(logger, advertisementService, models.StateActive))
			r.Route("/{user_id}/drafts", advertisementRoutes(logger, advertisementService, models.StateDraft))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func advertisementRoutes(logger *slog.Logger, service *advertisementservice.AdvertisementService, state string) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/", adcreate.New(logger, service, state).ServeHTTP)
		r.Get("/", adlist.New(logger, service, state).ServeHTTP)
		r.Get("/{advertisement_id}", adread.New(logger, service, state).ServeHTTP)
		r.Put("/{advertisement_id}", adupdate.New(logger, service, state).ServeHTTP)
		r.Delete("/{advertisement_id}", adremove.New(logger, service, state).ServeHTTP)
	}
}
