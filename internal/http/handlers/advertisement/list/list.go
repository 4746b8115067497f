// Package list реализует HTTP-обработчик списка объявлений или черновиков владельца.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// Handler управляет HTTP-запросами на получение списка объявлений владельца.
type Handler struct {
	log     *slog.Logger
	service Service
	state   string
}

// Service описывает интерфейс бизнес-логики списка объявлений.
type Service interface {
	List(ctx context.Context, caller *models.User, ownerID int, state string, limit, offset int) ([]*models.Advertisement, error)
}

// New создает новый Handler для записей в заданном состоянии.
func New(log *slog.Logger, service Service, state string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		state:   state,
	}
}

// ServeHTTP godoc
// @Summary Список объявлений или черновиков владельца
// @Description Возвращает записи владельца в состоянии, заданном маршрутом, с пагинацией через query-параметры skip и limit. Черновики видны владельцу, администратору и модератору из общей группы с владельцем.
// @Tags Advertisements
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "ID владельца"
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей в ответе" default(100)
// @Success 200 {object} response.Response "Список объявлений"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Владелец вне зоны видимости"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{user_id}/advertisements/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.advertisement.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("state", h.state),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	}

	ownerID, err := strconv.Atoi(chi.URLParam(r, "user_id"))
	if err != nil {
		log.Error("failed to decode user_id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode user_id from url"))
		return
	}

	skip, limit := pagination(r)

	ads, err := h.service.List(r.Context(), caller, ownerID, h.state, limit, skip)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("owner not visible", slog.Int("owner_id", ownerID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("not found"))
			return
		}
		log.Error("failed to list advertisements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list advertisements"))
		return
	}

	log.Info("listed advertisements", slog.Int("count", len(ads)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":     len(ads),
		"advertisements": ads,
	}))
}

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
