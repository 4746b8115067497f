// Package read реализует HTTP-обработчик чтения одного объявления или черновика.
package read

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

// Handler управляет HTTP-запросами на чтение объявления.
type Handler struct {
	log     *slog.Logger
	service Service
	state   string
}

// Service описывает интерфейс бизнес-логики чтения объявления.
type Service interface {
	Get(ctx context.Context, caller *models.User, ownerID, id int, state string) (*models.Advertisement, error)
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
// @Summary Получить объявление или черновик
// @Description Возвращает одну запись владельца в состоянии, заданном маршрутом. Черновики видны владельцу, администратору и модератору из общей группы с владельцем.
// @Tags Advertisements
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "ID владельца"
// @Param advertisement_id path int true "ID объявления"
// @Success 200 {object} response.Response "Объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{user_id}/advertisements/{advertisement_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.advertisement.read"
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

	id, err := strconv.Atoi(chi.URLParam(r, "advertisement_id"))
	if err != nil {
		log.Error("failed to decode advertisement_id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode advertisement_id from url"))
		return
	}

	ad, err := h.service.Get(r.Context(), caller, ownerID, id, h.state)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("advertisement not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("not found"))
			return
		}
		log.Error("failed to get advertisement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get advertisement"))
		return
	}

	log.Info("got advertisement", slog.Int("id", ad.ID))
	render.JSON(w, r, response.OKWithData(ad))
}
