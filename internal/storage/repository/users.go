package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, role, plan, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Role, &u.Plan, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CreateUser сохраняет пользователя, пришедшего из внешнего сервиса
// регистрации, и возвращает его UID. Почта нормализуется к нижнему регистру,
// уникальность обеспечивает индекс.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, role, plan)
			  VALUES ($1, $2, $3)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		strings.ToLower(user.Email), user.Role, user.Plan).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}
