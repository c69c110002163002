// Package deposit реализует HTTP-обработчик пополнения кошелька.
//
// Handler принимает JSON-запрос с суммой и комментарием, валидирует их,
// извлекает uid пользователя из контекста, вызывает бизнес-логику пополнения
// и возвращает снимок кошелька вместе с записью журнала операций.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package deposit

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

// Handler управляет HTTP-запросами на пополнение кошелька.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики кошелька
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики пополнения.
type Service interface {
	Deposit(ctx context.Context, userUID string, req models.DummyDeposit) (*models.WalletAccount, *models.WalletTransaction, error)
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
// @Summary Пополнить кошелёк
// @Description Пополняет кошелёк текущего пользователя. Возвращает снимок кошелька и запись журнала.
// @Tags Wallet
// @Accept  json
// @Produce  json
// @Param request body models.DummyDeposit true "Сумма и комментарий"
// @Success 200 {object} map[string]any "Успешное пополнение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при пополнении"
// @Router /wallet/deposit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.deposit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDeposit
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

	wallet, transaction, err := h.service.Deposit(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			log.Error("deposit rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to deposit", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deposit"))
		return
	}

	log.Info("deposit completed", slog.Int("transaction_id", transaction.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"wallet":      wallet,
		"transaction": transaction,
	}))
}
