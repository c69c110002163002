package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// CreateVideoJob вставляет новое видеозадание и возвращает его ID и время создания.
func (s *Storage) CreateVideoJob(ctx context.Context, job models.VideoJob) (*models.VideoJob, error) {
	const op = "storage.CreateVideoJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO video_jobs (user_uid, title, product_url, showcase_id, showcase_url)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		job.UserUID, job.Title, job.ProductURL, job.ShowcaseID, job.ShowcaseURL).Scan(
		&job.ID, &job.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &job, nil
}

// CountVideoJobs возвращает текущее число видеозаданий пользователя.
// Используется при проверке квоты тарифа.
func (s *Storage) CountVideoJobs(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountVideoJobs"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM video_jobs WHERE user_uid = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
