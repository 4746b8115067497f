// Package create реализует HTTP-обработчик создания объявлений и черновиков.
//
// Один и тот же обработчик обслуживает оба семейства ручек: состояние
// создаваемой записи задаётся при регистрации маршрута. Создавать может
// только клиент и только от своего имени.
package create

import (
	"context"
	"encoding/json"
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

// Handler управляет HTTP-запросами на создание объявлений.
type Handler struct {
	log      *slog.Logger
	service  Service
	state    string // Состояние создаваемых записей: active или draft
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания объявления.
type Service interface {
	Create(ctx context.Context, caller *models.User, ownerID int, req models.DummyAdvertisement, state string) (*models.Advertisement, error)
}

// New создает новый Handler. Параметр state определяет, в каком состоянии
// создаются записи: models.StateActive для объявлений, models.StateDraft
// для черновиков.
func New(log *slog.Logger, service Service, state string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		state:    state,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать объявление или черновик
// @Description Создает запись в состоянии, заданном маршрутом: POST на advertisements создаёт активное объявление, POST на drafts — черновик. Доступно клиенту только для собственного ID.
// @Tags Advertisements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "ID владельца"
// @Param request body models.DummyAdvertisement true "Данные объявления"
// @Success 200 {object} response.Response "Созданное объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Чужой ID владельца"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{user_id}/advertisements/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.advertisement.create"
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

	var req models.DummyAdvertisement
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	ad, err := h.service.Create(r.Context(), caller, ownerID, req, h.state)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			log.Error("operation not permitted", slog.String("role", caller.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("operation not permitted"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("owner mismatch", slog.Int("owner_id", ownerID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("not found"))
		default:
			log.Error("failed to create advertisement", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create advertisement"))
		}
		return
	}

	log.Info("created advertisement", slog.Int("id", ad.ID))
	render.JSON(w, r, response.OKWithData(ad))
}
