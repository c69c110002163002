// Package plans реализует HTTP-обработчик каталога тарифов:
// только активные тарифы, по возрастанию цены.
package plans

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/showcase-backend/internal/http/response"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// Handler управляет HTTP-запросами на чтение каталога тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	ListActivePlans(ctx context.Context) ([]*models.RentalPlan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает активные тарифы по возрастанию месячной цены.
// @Tags Rental
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rental.plans"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.ListActivePlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count": len(plans),
		"plans": plans,
	}))
}
