package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

func TestStorage_CollectTotals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	t.Run("empty database yields zeros", func(t *testing.T) {
		totals, err := storage.CollectTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, totals.TotalUsers)
		assert.Equal(t, 0, totals.ActiveRentals)
		assert.Equal(t, 0.0, totals.RentalRevenue)
		assert.Equal(t, 0.0, totals.WalletBalance)
		assert.Equal(t, 0.0, totals.DepositVolume)
		assert.Equal(t, 0, totals.TotalVideoJobs)
	})

	t.Run("aggregates across tables", func(t *testing.T) {
		now := time.Now().UTC()
		growth := factory.FindPlan(t, "growth")

		first := factory.CreateUser(t, "first@example.com", "user", "growth")
		second := factory.CreateUser(t, "second@example.com", "user", "free")

		_, err := storage.EnsureWallet(ctx, first, "RUB")
		require.NoError(t, err)
		_, err = storage.EnsureWallet(ctx, second, "RUB")
		require.NoError(t, err)
		_, _, err = storage.Deposit(ctx, first, 300, "", nil)
		require.NoError(t, err)
		_, _, err = storage.Deposit(ctx, second, 700, "", nil)
		require.NoError(t, err)

		factory.CreateRental(t, first, growth.ID, 2, growth.MonthlyPrice*2, "active",
			now, now.AddDate(0, 2, 0))
		factory.CreateRental(t, second, growth.ID, 1, growth.MonthlyPrice, "expired",
			now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
		factory.CreateVideoJobs(t, first, 3)

		totals, err := storage.CollectTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, totals.TotalUsers)
		assert.Equal(t, 1, totals.ActiveRentals)
		assert.Equal(t, 2997.0, totals.RentalRevenue)
		assert.Equal(t, 1000.0, totals.WalletBalance)
		assert.Equal(t, 1000.0, totals.DepositVolume)
		assert.Equal(t, 3, totals.TotalVideoJobs)
	})
}

func TestStorage_ListRecentTransactions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	alice := factory.CreateUser(t, "alice@example.com", "user", "free")
	bob := factory.CreateUser(t, "bob@example.com", "user", "free")
	_, err := storage.EnsureWallet(ctx, alice, "RUB")
	require.NoError(t, err)
	_, err = storage.EnsureWallet(ctx, bob, "RUB")
	require.NoError(t, err)

	_, _, err = storage.Deposit(ctx, alice, 100, "", nil)
	require.NoError(t, err)
	_, _, err = storage.Deposit(ctx, bob, 200, "", nil)
	require.NoError(t, err)
	_, _, err = storage.Deposit(ctx, alice, 300, "", nil)
	require.NoError(t, err)

	t.Run("joins owner email and orders newest first", func(t *testing.T) {
		items, err := storage.ListRecentTransactions(ctx, 10)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, 300.0, items[0].Amount)
		assert.Equal(t, "alice@example.com", items[0].Email)
		assert.Equal(t, 200.0, items[1].Amount)
		assert.Equal(t, "bob@example.com", items[1].Email)
	})

	t.Run("respects limit", func(t *testing.T) {
		items, err := storage.ListRecentTransactions(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 300.0, items[0].Amount)
	})
}

func TestStorage_ListTopWallets(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	amounts := map[string]float64{
		"small@example.com": 50,
		"big@example.com":   5000,
		"mid@example.com":   500,
	}
	for email, amount := range amounts {
		uid := factory.CreateUser(t, email, "user", "free")
		_, err := storage.EnsureWallet(ctx, uid, "RUB")
		require.NoError(t, err)
		_, _, err = storage.Deposit(ctx, uid, amount, "", nil)
		require.NoError(t, err)
	}

	t.Run("orders by balance descending", func(t *testing.T) {
		wallets, err := storage.ListTopWallets(ctx, 10)
		require.NoError(t, err)
		require.Len(t, wallets, 3)
		assert.Equal(t, 5000.0, wallets[0].Balance)
		assert.Equal(t, 500.0, wallets[1].Balance)
		assert.Equal(t, 50.0, wallets[2].Balance)
	})

	t.Run("limits to top k", func(t *testing.T) {
		wallets, err := storage.ListTopWallets(ctx, 2)
		require.NoError(t, err)
		require.Len(t, wallets, 2)
		assert.Equal(t, 5000.0, wallets[0].Balance)
	})
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("create normalizes email and returns uid", func(t *testing.T) {
		uid, err := storage.CreateUser(ctx, models.User{
			Email: "Mixed.Case@Example.COM",
			Role:  "user",
			Plan:  "free",
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		user, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "mixed.case@example.com", user.Email)
		assert.Equal(t, "user", user.Role)
		assert.Equal(t, "free", user.Plan)
	})

	t.Run("duplicate email is rejected by index", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Email: "dup@example.com", Role: "user", Plan: "free"})
		require.NoError(t, err)
		_, err = storage.CreateUser(ctx, models.User{
			Email: "DUP@example.com", Role: "user", Plan: "free"})
		require.Error(t, err)
	})
}

func TestStorage_VideoJobs(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	uid := factory.CreateUser(t, "jobs@example.com", "user", "starter")

	t.Run("create returns id and created_at", func(t *testing.T) {
		job, err := storage.CreateVideoJob(ctx, models.VideoJob{
			UserUID:     uid,
			Title:       "Осенняя коллекция",
			ProductURL:  "https://shop.example/item/42",
			ShowcaseID:  "sc-1",
			ShowcaseURL: "https://showcase.example/v/sc-1",
		})
		require.NoError(t, err)
		assert.NotZero(t, job.ID)
		assert.False(t, job.CreatedAt.IsZero())
	})

	t.Run("count covers only owner jobs", func(t *testing.T) {
		other := factory.CreateUser(t, "other@example.com", "user", "free")
		factory.CreateVideoJobs(t, other, 4)

		count, err := storage.CountVideoJobs(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = storage.CountVideoJobs(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}
