// Package services содержит бизнес-логику видеозаданий — учитываемого
// ресурса, на который действует квота арендованного тарифа.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
	"github.com/magabrotheeeer/showcase-backend/internal/showcase"
)

// VideoJobRepository определяет методы для работы с видеозаданиями в хранилище.
type VideoJobRepository interface {
	// CreateVideoJob вставляет новое видеозадание.
	CreateVideoJob(ctx context.Context, job models.VideoJob) (*models.VideoJob, error)
	// CountVideoJobs возвращает текущее число видеозаданий пользователя.
	CountVideoJobs(ctx context.Context, userUID string) (int, error)
}

// QuotaChecker описывает проверку квоты тарифа перед созданием ресурса.
type QuotaChecker interface {
	CheckQuota(ctx context.Context, userUID string, resourceCount func(ctx context.Context, userUID string) (int, error)) error
}

// Uploader описывает публикацию ролика на витрине.
type Uploader interface {
	UploadVideo(ctx context.Context, userUID, title string) (*showcase.Upload, error)
}

// EventPublisher описывает публикацию доменных событий.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// VideoJobService реализует бизнес-логику видеозаданий.
type VideoJobService struct {
	repo     VideoJobRepository
	quota    QuotaChecker
	uploader Uploader
	events   EventPublisher
	log      *slog.Logger
}

// NewVideoJobService создает новый экземпляр VideoJobService.
func NewVideoJobService(repo VideoJobRepository, quota QuotaChecker, uploader Uploader, events EventPublisher, log *slog.Logger) *VideoJobService {
	return &VideoJobService{
		repo:     repo,
		quota:    quota,
		uploader: uploader,
		events:   events,
		log:      log,
	}
}

// Create создаёт видеозадание: проверяет квоту действующей аренды,
// симулирует публикацию на витрине и записывает задание.
func (s *VideoJobService) Create(ctx context.Context, userUID string, req models.DummyVideoJob) (*models.VideoJob, error) {
	const op = "services.videojob.Create"

	if err := s.quota.CheckQuota(ctx, userUID, s.repo.CountVideoJobs); err != nil {
		return nil, err
	}

	upload, err := s.uploader.UploadVideo(ctx, userUID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	job, err := s.repo.CreateVideoJob(ctx, models.VideoJob{
		UserUID:     userUID,
		Title:       req.Title,
		ProductURL:  req.ProductURL,
		ShowcaseID:  upload.ID,
		ShowcaseURL: upload.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	s.log.Info("video job created",
		slog.String("user_uid", userUID),
		slog.Int("id", job.ID),
		slog.String("showcase_id", job.ShowcaseID))

	if err := s.events.Publish("videojob.created", job); err != nil {
		s.log.Warn("failed to publish video job event", sl.Err(err))
	}
	return job, nil
}
