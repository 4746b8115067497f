// Package list реализует HTTP-обработчик списка пользователей.
//
// Состав списка зависит от роли вызывающего: администратор видит всех
// активных пользователей, модератор — активных из общих с ним групп,
// клиент — только себя, единственным элементом.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
)

// Handler управляет HTTP-запросами на получение списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context, caller *models.User, limit, offset int) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает список пользователей в зависимости от роли вызывающего.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Смещение" default(0)
// @Param limit query int false "Размер страницы" default(100)
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	}

	skip, limit := pagination(r)

	users, err := h.service.List(r.Context(), caller, limit, skip)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			log.Error("operation not permitted", slog.String("role", caller.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("operation not permitted"))
			return
		}
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}

	log.Info("list users", slog.Int("count", len(result)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(result),
		"users":      result,
	}))
}

// pagination читает skip и limit из query-параметров, подставляя значения
// по умолчанию 0 и 100 при отсутствии или некорректном вводе.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}
