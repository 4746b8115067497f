// Package feed реализует публичную ленту активных объявлений.
//
// Единственная ручка, доступная без аутентификации: отдает активные
// объявления всех пользователей вместе с публичными данными владельцев.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/maratbr/classifieds-board/internal/http/response"
	"github.com/maratbr/classifieds-board/internal/lib/sl"
	"github.com/maratbr/classifieds-board/internal/models"
)

// Handler управляет HTTP-запросами к публичной ленте.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ленты.
type Service interface {
	Feed(ctx context.Context, limit, offset int) ([]models.FeedItem, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичная лента объявлений
// @Description Возвращает активные объявления всех пользователей, отсортированные от новых к старым. Аутентификация не требуется. Черновики в ленту не попадают.
// @Tags Feed
// @Produce json
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей в ответе" default(100)
// @Success 200 {object} response.Response "Лента объявлений"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feed"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	skip, limit := 0, 100
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	items, err := h.service.Feed(r.Context(), limit, skip)
	if err != nil {
		log.Error("failed to build feed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build feed"))
		return
	}

	log.Info("built feed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":     len(items),
		"advertisements": items,
	}))
}
