// Package update реализует HTTP-обработчик обновления объявлений и черновиков.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление объявлений.
type Handler struct {
	log      *slog.Logger
	service  Service
	state    string
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления объявления.
type Service interface {
	Update(ctx context.Context, caller *models.User, ownerID, id int, req models.DummyAdvertisement, state string) (*models.Advertisement, error)
}

// New создает новый Handler для записей в заданном состоянии.
func New(log *slog.Logger, service Service, state string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		state:    state,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить объявление или черновик
// @Description Полностью заменяет заголовок и текст записи. Состояние записи повторно фиксируется маршрутом: PUT на advertisements оставляет запись активной, PUT на drafts — черновиком. Доступно клиенту только для собственных записей.
// @Tags Advertisements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "ID владельца"
// @Param advertisement_id path int true "ID объявления"
// @Param request body models.DummyAdvertisement true "Новые данные объявления"
// @Success 200 {object} response.Response "Обновленное объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{user_id}/advertisements/{advertisement_id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.advertisement.update"
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

	var req models.DummyAdvertisement
	if err = render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err = h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ad, err := h.service.Update(r.Context(), caller, ownerID, id, req, h.state)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			log.Error("operation not permitted", slog.String("role", caller.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("operation not permitted"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("advertisement not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("not found"))
		default:
			log.Error("failed to update advertisement", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update advertisement"))
		}
		return
	}

	log.Info("updated advertisement", slog.Int("id", ad.ID))
	render.JSON(w, r, response.OKWithData(ad))
}
