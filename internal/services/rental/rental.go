// Package services содержит бизнес-логику аренды тарифов: каталог,
// атомарные переходы подписки и проверку квоты.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

const (
	// MaxRentalMonths — максимальный срок одной аренды.
	MaxRentalMonths = 24

	plansCacheKey  = "rental:plans:active"
	plansCacheTTL  = time.Hour
	rentalCacheTTL = time.Minute
)

// RentalRepository определяет методы для работы с тарифами и арендой в хранилище.
type RentalRepository interface {
	// ListActivePlans возвращает активные тарифы по возрастанию цены.
	ListActivePlans(ctx context.Context) ([]*models.RentalPlan, error)
	// FindActivePlanByCode возвращает активный тариф по коду.
	FindActivePlanByCode(ctx context.Context, code string) (*models.RentalPlan, error)
	// Subscribe атомарно выполняет переход подписки.
	Subscribe(ctx context.Context, userUID string, plan *models.RentalPlan, months int, totalPrice float64, startsAt, endsAt time.Time) (*models.UserRental, error)
	// GetActiveRental возвращает действующую аренду пользователя.
	GetActiveRental(ctx context.Context, userUID string, now time.Time) (*models.RentalInfo, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher описывает публикацию доменных событий.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubscribeEvent — событие об оформленной аренде тарифа.
type SubscribeEvent struct {
	UserUID    string    `json:"user_uid"`
	PlanCode   string    `json:"plan_code"`
	Months     int       `json:"months"`
	TotalPrice float64   `json:"total_price"`
	EndsAt     time.Time `json:"ends_at"`
}

// RentalService реализует бизнес-логику аренды тарифов.
type RentalService struct {
	repo   RentalRepository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// NewRentalService создает новый экземпляр RentalService.
func NewRentalService(repo RentalRepository, cache Cache, events EventPublisher, log *slog.Logger) *RentalService {
	return &RentalService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// ListActivePlans возвращает каталог активных тарифов, используя кеш.
func (s *RentalService) ListActivePlans(ctx context.Context) ([]*models.RentalPlan, error) {
	const op = "services.rental.ListActivePlans"

	var cached []*models.RentalPlan
	found, err := s.cache.Get(plansCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	if err := s.cache.Set(plansCacheKey, plans, plansCacheTTL); err != nil {
		s.log.Warn("failed to cache plans", sl.Err(err))
	}
	return plans, nil
}

// Subscribe оформляет аренду тарифа. Срок по умолчанию — один месяц.
// Полная цена фиксируется в момент подписки. Переход (истечение прежней
// аренды, вставка новой, синхронизация кода тарифа на пользователе)
// выполняется одной транзакцией хранилища.
func (s *RentalService) Subscribe(ctx context.Context, userUID string, req models.DummySubscribe) (*models.UserRental, *models.RentalPlan, error) {
	const op = "services.rental.Subscribe"

	if req.PlanCode == "" {
		return nil, nil, fmt.Errorf("%w: plan code is required", apperr.ErrValidation)
	}
	months := req.Months
	if months == 0 {
		months = 1
	}
	if months < 1 || months > MaxRentalMonths {
		return nil, nil, fmt.Errorf("%w: months must be between 1 and %d", apperr.ErrValidation, MaxRentalMonths)
	}

	plan, err := s.repo.FindActivePlanByCode(ctx, req.PlanCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: plan %q", apperr.ErrNotFound, req.PlanCode)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}

	totalPrice := plan.MonthlyPrice * float64(months)
	startsAt := time.Now().UTC()
	endsAt := startsAt.AddDate(0, months, 0)

	rental, err := s.repo.Subscribe(ctx, userUID, plan, months, totalPrice, startsAt, endsAt)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	s.log.Info("subscription activated",
		slog.String("user_uid", userUID),
		slog.String("plan", plan.Code),
		slog.Int("months", months))

	if err := s.cache.Invalidate(activeRentalCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate rental cache", sl.Err(err))
	}
	event := SubscribeEvent{
		UserUID:    userUID,
		PlanCode:   plan.Code,
		Months:     months,
		TotalPrice: totalPrice,
		EndsAt:     endsAt,
	}
	if err := s.events.Publish("rental.subscribed", event); err != nil {
		s.log.Warn("failed to publish subscribe event", sl.Err(err))
	}

	return rental, plan, nil
}

// GetActiveRental возвращает действующую аренду пользователя вместе с квотой
// тарифа или nil, если действующей аренды нет. Аренда с прошедшим ends_at
// действующей не считается, даже если статус ещё не переключён.
func (s *RentalService) GetActiveRental(ctx context.Context, userUID string) (*models.RentalInfo, error) {
	const op = "services.rental.GetActiveRental"
	now := time.Now().UTC()

	cacheKey := activeRentalCacheKey(userUID)
	var cached *models.RentalInfo
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read rental from cache", sl.Err(err))
	}
	if found && cached != nil && cached.EndsAt.After(now) {
		return cached, nil
	}

	rental, err := s.repo.GetActiveRental(ctx, userUID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}

	if err := s.cache.Set(cacheKey, rental, rentalCacheTTL); err != nil {
		s.log.Warn("failed to cache rental", sl.Err(err))
	}
	return rental, nil
}

// CheckQuota сравнивает живое количество ресурса пользователя с квотой его
// действующей аренды. Без действующей аренды проверка пропускается: лимит
// не применяется. При достижении квоты возвращается apperr.ErrQuotaExceeded.
func (s *RentalService) CheckQuota(ctx context.Context, userUID string, resourceCount func(ctx context.Context, userUID string) (int, error)) error {
	const op = "services.rental.CheckQuota"

	rental, err := s.GetActiveRental(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rental == nil {
		return nil
	}

	count, err := resourceCount(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	if count >= rental.MaxVideoJobs {
		return fmt.Errorf("%w: %d of %d video jobs used", apperr.ErrQuotaExceeded, count, rental.MaxVideoJobs)
	}
	return nil
}

func activeRentalCacheKey(userUID string) string {
	return "rental:active:" + userUID
}
