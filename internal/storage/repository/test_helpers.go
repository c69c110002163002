package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/showcase-backend/internal/migrations"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// (включая посев каталога тарифов) и возвращает хранилище с функцией очистки.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"),
		"failed to run migrations")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, email, role, plan string) string {
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, role, plan)
		VALUES ($1, $2, $3) RETURNING uid`,
		email, role, plan).Scan(&uid)
	require.NoError(t, err)
	return uid
}

// CreateRental создает тестовую аренду и возвращает её ID
func (f *TestDataFactory) CreateRental(t *testing.T, userUID string, planID, months int,
	totalPrice float64, status string, startsAt, endsAt time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO user_rentals
		(user_uid, plan_id, months, total_price, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		userUID, planID, months, totalPrice, status, startsAt, endsAt).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateVideoJobs создает count тестовых видеозаданий пользователя
func (f *TestDataFactory) CreateVideoJobs(t *testing.T, userUID string, count int) {
	for i := 0; i < count; i++ {
		_, err := f.storage.DB.Exec(`INSERT INTO video_jobs
			(user_uid, title, product_url, showcase_id, showcase_url)
			VALUES ($1, 'job', 'https://example.com/p', 'sid', 'https://showcase.example/v/sid')`,
			userUID)
		require.NoError(t, err)
	}
}

// FindPlan возвращает тариф по коду, падая при его отсутствии
func (f *TestDataFactory) FindPlan(t *testing.T, code string) *models.RentalPlan {
	var p models.RentalPlan
	err := f.storage.DB.QueryRow(`SELECT id, code, name, monthly_price, max_video_jobs, perks, active
		FROM rental_plans WHERE code = $1`, code).Scan(
		&p.ID, &p.Code, &p.Name, &p.MonthlyPrice, &p.MaxVideoJobs, &p.Perks, &p.Active)
	require.NoError(t, err)
	return &p
}

// CountRows возвращает количество строк в таблице
func (f *TestDataFactory) CountRows(t *testing.T, table string) int {
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count)
	require.NoError(t, err)
	return count
}
