// Package create реализует HTTP-обработчик создания видеозадания.
//
// Создание ограничено квотой действующей аренды: при достижении лимита
// возвращается 403 с сообщением о достигнутом лимите тарифа.
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

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/showcase-backend/internal/http/response"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// Handler управляет HTTP-запросами на создание видеозаданий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики видеозаданий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания видеозадания.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyVideoJob) (*models.VideoJob, error)
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
// @Summary Создать видеозадание
// @Description Создает видеозадание для текущего пользователя с учётом квоты тарифа.
// @Tags VideoJobs
// @Accept  json
// @Produce  json
// @Param request body models.DummyVideoJob true "Название и ссылка на товар"
// @Success 200 {object} map[string]any "Созданное задание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Достигнут лимит тарифа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /videojobs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.videojob.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyVideoJob
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

	job, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, apperr.ErrQuotaExceeded) {
			log.Error("quota exceeded", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("plan limit reached"))
			return
		}
		log.Error("failed to create video job", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create video job"))
		return
	}

	log.Info("video job created", slog.Int("id", job.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"job": job,
	}))
}
