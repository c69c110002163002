package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_ListActivePlans(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("returns seeded catalog ordered by price", func(t *testing.T) {
		plans, err := storage.ListActivePlans(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 3)

		assert.Equal(t, "starter", plans[0].Code)
		assert.Equal(t, 299.0, plans[0].MonthlyPrice)
		assert.Equal(t, 30, plans[0].MaxVideoJobs)

		assert.Equal(t, "growth", plans[1].Code)
		assert.Equal(t, 999.0, plans[1].MonthlyPrice)
		assert.Equal(t, 150, plans[1].MaxVideoJobs)

		assert.Equal(t, "pro", plans[2].Code)
		assert.Equal(t, 2499.0, plans[2].MonthlyPrice)
		assert.Equal(t, 1000, plans[2].MaxVideoJobs)
	})

	t.Run("hides deactivated plans", func(t *testing.T) {
		_, err := storage.DB.Exec(`UPDATE rental_plans SET active = false WHERE code = 'growth'`)
		require.NoError(t, err)
		defer func() {
			_, _ = storage.DB.Exec(`UPDATE rental_plans SET active = true WHERE code = 'growth'`)
		}()

		plans, err := storage.ListActivePlans(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, "starter", plans[0].Code)
		assert.Equal(t, "pro", plans[1].Code)
	})
}

func TestStorage_FindActivePlanByCode(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("finds active plan", func(t *testing.T) {
		plan, err := storage.FindActivePlanByCode(ctx, "pro")
		require.NoError(t, err)
		assert.Equal(t, "Pro", plan.Name)
		assert.Equal(t, 2499.0, plan.MonthlyPrice)
		assert.True(t, plan.Active)
	})

	t.Run("unknown code yields no rows", func(t *testing.T) {
		_, err := storage.FindActivePlanByCode(ctx, "platinum")
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("inactive plan is not subscribable", func(t *testing.T) {
		_, err := storage.DB.Exec(`UPDATE rental_plans SET active = false WHERE code = 'starter'`)
		require.NoError(t, err)
		defer func() {
			_, _ = storage.DB.Exec(`UPDATE rental_plans SET active = true WHERE code = 'starter'`)
		}()

		_, err = storage.FindActivePlanByCode(ctx, "starter")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestStorage_Subscribe(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	uid := factory.CreateUser(t, "subscriber@example.com", "user", "free")

	starter := factory.FindPlan(t, "starter")
	pro := factory.FindPlan(t, "pro")

	now := time.Now().UTC()

	t.Run("creates active rental and syncs user plan", func(t *testing.T) {
		rental, err := storage.Subscribe(ctx, uid, starter, 1, starter.MonthlyPrice,
			now, now.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.NotZero(t, rental.ID)
		assert.Equal(t, "active", rental.Status)
		assert.Equal(t, starter.ID, rental.PlanID)

		var plan string
		err = storage.DB.QueryRow(`SELECT plan FROM users WHERE uid = $1`, uid).Scan(&plan)
		require.NoError(t, err)
		assert.Equal(t, "starter", plan)
	})

	t.Run("switching plan expires previous rental in one transaction", func(t *testing.T) {
		rental, err := storage.Subscribe(ctx, uid, pro, 3, pro.MonthlyPrice*3,
			now, now.AddDate(0, 3, 0))
		require.NoError(t, err)
		assert.Equal(t, 7497.0, rental.TotalPrice)

		var active, expired int
		err = storage.DB.QueryRow(`SELECT
				COUNT(*) FILTER (WHERE status = 'active'),
				COUNT(*) FILTER (WHERE status = 'expired')
			FROM user_rentals WHERE user_uid = $1`, uid).Scan(&active, &expired)
		require.NoError(t, err)
		assert.Equal(t, 1, active)
		assert.Equal(t, 1, expired)

		var plan string
		err = storage.DB.QueryRow(`SELECT plan FROM users WHERE uid = $1`, uid).Scan(&plan)
		require.NoError(t, err)
		assert.Equal(t, "pro", plan)
	})

	t.Run("concurrent subscribes leave single active rental", func(t *testing.T) {
		concUID := factory.CreateUser(t, "racer@example.com", "user", "free")

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := storage.Subscribe(ctx, concUID, starter, 1, starter.MonthlyPrice,
					now, now.AddDate(0, 1, 0))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var active, expired int
		err := storage.DB.QueryRow(`SELECT
				COUNT(*) FILTER (WHERE status = 'active'),
				COUNT(*) FILTER (WHERE status = 'expired')
			FROM user_rentals WHERE user_uid = $1`, concUID).Scan(&active, &expired)
		require.NoError(t, err)
		assert.Equal(t, 1, active)
		assert.Equal(t, 7, expired)
	})
}

func TestStorage_GetActiveRental(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	now := time.Now().UTC()

	growth := factory.FindPlan(t, "growth")

	t.Run("returns rental with plan fields", func(t *testing.T) {
		uid := factory.CreateUser(t, "active@example.com", "user", "growth")
		factory.CreateRental(t, uid, growth.ID, 2, growth.MonthlyPrice*2, "active",
			now.AddDate(0, -1, 0), now.AddDate(0, 1, 0))

		info, err := storage.GetActiveRental(ctx, uid, now)
		require.NoError(t, err)
		assert.Equal(t, "growth", info.PlanCode)
		assert.Equal(t, "Growth", info.PlanName)
		assert.Equal(t, 150, info.MaxVideoJobs)
		assert.Equal(t, 1998.0, info.TotalPrice)
	})

	t.Run("rental past ends_at is not returned even while status is active", func(t *testing.T) {
		uid := factory.CreateUser(t, "stale@example.com", "user", "growth")
		factory.CreateRental(t, uid, growth.ID, 1, growth.MonthlyPrice, "active",
			now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))

		_, err := storage.GetActiveRental(ctx, uid, now)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("no rental yields no rows", func(t *testing.T) {
		uid := factory.CreateUser(t, "norental@example.com", "user", "free")
		_, err := storage.GetActiveRental(ctx, uid, now)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("picks most recent of several rows", func(t *testing.T) {
		uid := factory.CreateUser(t, "switched@example.com", "user", "growth")
		factory.CreateRental(t, uid, growth.ID, 1, growth.MonthlyPrice, "expired",
			now.AddDate(0, -3, 0), now.AddDate(0, -2, 0))
		id := factory.CreateRental(t, uid, growth.ID, 6, growth.MonthlyPrice*6, "active",
			now, now.AddDate(0, 6, 0))

		info, err := storage.GetActiveRental(ctx, uid, now)
		require.NoError(t, err)
		assert.Equal(t, id, info.ID)
		assert.Equal(t, 6, info.Months)
	})
}
