// Package stats реализует HTTP-обработчик административной сводки.
// Доступ только для роли admin; сводка собирается read-only запросами.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/showcase-backend/internal/http/response"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	statsservice "github.com/magabrotheeeer/showcase-backend/internal/services/stats"
)

// Handler управляет HTTP-запросами административной сводки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводки.
type Service interface {
	GetSnapshot(ctx context.Context) (*statsservice.Snapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Административная сводка
// @Description Возвращает агрегаты по пользователям, арендам и кошелькам. Только для администратора.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Сводка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	if role != "admin" {
		log.Error("forbidden", slog.String("role", role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context())
	if err != nil {
		log.Error("failed to collect snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(snapshot))
}
