// Package balance реализует HTTP-обработчик чтения баланса кошелька.
// Кошелёк создаётся лениво при первом обращении.
package balance

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

// Handler управляет HTTP-запросами на чтение баланса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения баланса.
type Service interface {
	GetBalance(ctx context.Context, userUID string) (*models.WalletAccount, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Баланс кошелька
// @Description Возвращает кошелёк текущего пользователя, создавая его при первом обращении.
// @Tags Wallet
// @Produce  json
// @Success 200 {object} map[string]any "Кошелёк пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /wallet [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.balance"
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

	wallet, err := h.service.GetBalance(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get balance"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"wallet": wallet,
	}))
}
