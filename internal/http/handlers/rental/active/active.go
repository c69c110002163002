// Package active реализует HTTP-обработчик чтения действующей аренды
// пользователя вместе с квотой тарифа.
package active

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/showcase-backend/internal/http/response"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// Handler управляет HTTP-запросами на чтение действующей аренды.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики действующей аренды.
type Service interface {
	GetActiveRental(ctx context.Context, userUID string) (*models.RentalInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Действующая аренда
// @Description Возвращает действующую аренду текущего пользователя с полями тарифа, либо null.
// @Tags Rental
// @Produce  json
// @Success 200 {object} map[string]any "Действующая аренда или null"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /rentals/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rental.active"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	rental, err := h.service.GetActiveRental(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get active rental", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get active rental"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"rental": rental,
	}))
}
