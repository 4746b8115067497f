// Package create реализует HTTP-обработчик создания пользователей.
//
// Создавать пользователей может только администратор. Тело запроса
// валидируется; пользователь с ролью client обязан указать хотя бы одну
// группу. Повторная регистрация email отклоняется с HTTP 400.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/maratbr/classifieds-board/internal/http/middlewarectx"
	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
	userservice "github.com/maratbr/classifieds-board/internal/services/user"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание пользователей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики пользователей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания пользователя.
type Service interface {
	Create(ctx context.Context, caller *models.User, req models.DummyUser) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Description Создает нового пользователя. Доступно только администратору. Роль client требует хотя бы одной группы.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyUser true "Данные нового пользователя"
// @Success 200 {object} response.Response "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый email"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"
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

	var req models.DummyUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			log.Error("operation not permitted", slog.String("role", caller.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("operation not permitted"))
		case errors.Is(err, userservice.ErrClientNeedsGroup):
			log.Error("client user without groups")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("client user must belong to at least one group"))
		case errors.Is(err, repository.ErrEmailTaken):
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already registered"))
		case errors.Is(err, repository.ErrGroupNotFound):
			log.Error("unknown group in request", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("group not found"))
		default:
			log.Error("failed to create user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create user"))
		}
		return
	}

	log.Info("created user", slog.Int("id", user.ID))
	render.JSON(w, r, response.OKWithData(user.Public()))
}
