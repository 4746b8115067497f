// Package login реализует HTTP-обработчик выдачи токена сессии.
//
// Ручка принимает form-данные в стиле OAuth2 password grant: поле username
// содержит email пользователя, поле password — пароль. При успехе возвращается
// JSON с access_token, сроком истечения и типом токена; при неверных учётных
// данных — HTTP 400 с единым сообщением, не раскрывающим причину отказа.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
	authservice "github.com/maratbr/classifieds-board/internal/services/auth"
)

// TokenResponse — тело успешного ответа в формате OAuth2 password grant.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	Expires     time.Time `json:"expires"`
	TokenType   string    `json:"token_type"`
}

// Handler обрабатывает HTTP-запросы на выдачу токена.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики аутентификации
}

// Service описывает интерфейс бизнес-логики выдачи токена.
type Service interface {
	Login(ctx context.Context, email, rawPassword string) (*models.Token, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выдать токен сессии
// @Description Аутентифицирует пользователя по email и паролю (form-данные, поле username содержит email). Возвращает bearer-токен со сроком действия один час.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email пользователя"
// @Param password formData string true "Пароль"
// @Success 200 {object} TokenResponse "Выданный токен"
// @Failure 400 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	email := r.PostFormValue("username")
	rawPassword := r.PostFormValue("password")
	if email == "" || rawPassword == "" {
		log.Error("missing credentials in form")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username and password are required"))
		return
	}

	token, err := h.service.Login(r.Context(), email, rawPassword)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			log.Error("invalid credentials", slog.String("email", email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("incorrect email or password"))
			return
		}
		log.Error("failed to issue token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue token"))
		return
	}

	log.Info("issued token", slog.Int("user_id", token.UserID))
	render.JSON(w, r, TokenResponse{
		AccessToken: token.Token,
		Expires:     token.Expires,
		TokenType:   "bearer",
	})
}
