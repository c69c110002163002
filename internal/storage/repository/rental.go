package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// ListActivePlans возвращает только активные тарифы по возрастанию цены.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.RentalPlan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, name, monthly_price, max_video_jobs, perks, active
			  FROM rental_plans
			  WHERE active = true
			  ORDER BY monthly_price ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.RentalPlan
	for rows.Next() {
		var item models.RentalPlan
		if err := rows.Scan(&item.ID, &item.Code, &item.Name, &item.MonthlyPrice,
			&item.MaxVideoJobs, &item.Perks, &item.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindActivePlanByCode возвращает активный тариф по его коду.
// Неактивные тарифы недоступны для подписки и здесь не видны.
func (s *Storage) FindActivePlanByCode(ctx context.Context, code string) (*models.RentalPlan, error) {
	const op = "storage.FindActivePlanByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, name, monthly_price, max_video_jobs, perks, active
			  FROM rental_plans
			  WHERE code = $1 AND active = true`
	var p models.RentalPlan
	row := s.DB.QueryRowContext(ctx, query, code)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.MonthlyPrice,
		&p.MaxVideoJobs, &p.Perks, &p.Active); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Subscribe выполняет переход подписки одной транзакцией: переводит прежнюю
// активную аренду пользователя в expired, вставляет новую активную строку и
// синхронизирует денормализованный код тарифа на пользователе. Частичное
// применение шагов невозможно: либо фиксируются все три, либо ни одного.
// Конкурирующие переходы одного пользователя сериализуются блокировкой его
// строки в users, поэтому вторая транзакция видит уже зафиксированную
// активную аренду первой и переводит её в expired.
func (s *Storage) Subscribe(ctx context.Context, userUID string, plan *models.RentalPlan, months int, totalPrice float64, startsAt, endsAt time.Time) (*models.UserRental, error) {
	const op = "storage.Subscribe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedUID string
	query := `SELECT uid FROM users WHERE uid = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, query, userUID).Scan(&lockedUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE user_rentals
			 SET status = 'expired'
			 WHERE user_uid = $1 AND status = 'active'`
	if _, err := tx.ExecContext(ctx, query, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO user_rentals (user_uid, plan_id, months, total_price, status, starts_at, ends_at)
			 VALUES ($1, $2, $3, $4, 'active', $5, $6)
			 RETURNING id`
	rental := models.UserRental{
		UserUID:    userUID,
		PlanID:     plan.ID,
		Months:     months,
		TotalPrice: totalPrice,
		Status:     "active",
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}
	if err := tx.QueryRowContext(ctx, query, userUID, plan.ID, months, totalPrice,
		startsAt, endsAt).Scan(&rental.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users SET plan = $1 WHERE uid = $2`
	if _, err := tx.ExecContext(ctx, query, plan.Code, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rental, nil
}

// GetActiveRental возвращает актуальную активную аренду пользователя вместе
// с полями тарифа. Строки с прошедшим ends_at не считаются действующими,
// даже если статус ещё не переключён (ленивое истечение).
func (s *Storage) GetActiveRental(ctx context.Context, userUID string, now time.Time) (*models.RentalInfo, error) {
	const op = "storage.GetActiveRental"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.user_uid, r.plan_id, r.months, r.total_price, r.status,
			      r.starts_at, r.ends_at,
			      p.code, p.name, p.monthly_price, p.max_video_jobs
			  FROM user_rentals r
			  JOIN rental_plans p ON r.plan_id = p.id
			  WHERE r.user_uid = $1
			    AND r.status = 'active'
			    AND r.ends_at > $2
			  ORDER BY r.starts_at DESC
			  LIMIT 1`
	var ri models.RentalInfo
	row := s.DB.QueryRowContext(ctx, query, userUID, now)
	if err := row.Scan(&ri.ID, &ri.UserUID, &ri.PlanID, &ri.Months, &ri.TotalPrice,
		&ri.Status, &ri.StartsAt, &ri.EndsAt,
		&ri.PlanCode, &ri.PlanName, &ri.MonthlyPrice, &ri.MaxVideoJobs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ri, nil
}
