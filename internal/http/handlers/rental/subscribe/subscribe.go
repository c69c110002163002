// Package subscribe реализует HTTP-обработчик оформления аренды тарифа.
//
// Handler принимает JSON-запрос с кодом тарифа и сроком, валидирует их,
// извлекает uid пользователя из контекста и вызывает бизнес-логику подписки.
// Переход подписки атомарен: прежняя активная аренда истекает, новая
// вставляется, код тарифа на пользователе синхронизируется.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/showcase-backend/internal/http/response"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// Handler управляет HTTP-запросами на оформление аренды.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики аренды
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID string, req models.DummySubscribe) (*models.UserRental, *models.RentalPlan, error)
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
// @Summary Оформить аренду тарифа
// @Description Оформляет аренду тарифа для текущего пользователя. Прежняя активная аренда истекает атомарно.
// @Tags Rental
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscribe true "Код тарифа и срок в месяцах"
// @Success 200 {object} map[string]any "Оформленная аренда и тариф"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при подписке"
// @Router /rentals/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rental.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscribe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	rental, plan, err := h.service.Subscribe(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			log.Error("plan not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, apperr.ErrValidation):
			log.Error("subscribe rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to subscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not subscribe"))
		}
		return
	}

	log.Info("subscription activated", slog.Int("rental_id", rental.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"rental": rental,
		"plan":   plan,
	}))
}
