package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_EnsureWallet(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	uid := factory.CreateUser(t, "wallet@example.com", "user", "free")

	t.Run("creates wallet on first call", func(t *testing.T) {
		wallet, err := storage.EnsureWallet(ctx, uid, "RUB")
		require.NoError(t, err)
		assert.Equal(t, uid, wallet.UserUID)
		assert.Equal(t, 0.0, wallet.Balance)
		assert.Equal(t, "RUB", wallet.Currency)
	})

	t.Run("returns same wallet on repeated calls", func(t *testing.T) {
		first, err := storage.EnsureWallet(ctx, uid, "RUB")
		require.NoError(t, err)
		second, err := storage.EnsureWallet(ctx, uid, "RUB")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, factory.CountRows(t, "wallet_accounts"))
	})

	t.Run("concurrent calls create exactly one wallet", func(t *testing.T) {
		raceUID := factory.CreateUser(t, "race@example.com", "user", "free")
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := storage.EnsureWallet(ctx, raceUID, "RUB")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var count int
		err := storage.DB.QueryRow(
			"SELECT COUNT(*) FROM wallet_accounts WHERE user_uid = $1", raceUID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStorage_Deposit(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	uid := factory.CreateUser(t, "deposit@example.com", "user", "free")
	_, err := storage.EnsureWallet(ctx, uid, "RUB")
	require.NoError(t, err)

	t.Run("increments balance and writes ledger row atomically", func(t *testing.T) {
		wallet, txn, err := storage.Deposit(ctx, uid, 150.50, "пополнение", nil)
		require.NoError(t, err)
		assert.Equal(t, 150.50, wallet.Balance)
		assert.Equal(t, "deposit", txn.TxType)
		assert.Equal(t, "completed", txn.Status)
		assert.Equal(t, 150.50, txn.Amount)
		assert.Equal(t, wallet.ID, txn.WalletID)
		assert.NotZero(t, txn.ID)

		wallet, _, err = storage.Deposit(ctx, uid, 49.50, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 200.0, wallet.Balance)
		assert.Equal(t, 2, factory.CountRows(t, "wallet_transactions"))
	})

	t.Run("fails for unknown user without ledger row", func(t *testing.T) {
		before := factory.CountRows(t, "wallet_transactions")
		_, _, err := storage.Deposit(ctx, "00000000-0000-0000-0000-000000000000", 10, "", nil)
		require.Error(t, err)
		assert.Equal(t, before, factory.CountRows(t, "wallet_transactions"))
	})

	t.Run("concurrent deposits sum without loss", func(t *testing.T) {
		concUID := factory.CreateUser(t, "concurrent@example.com", "user", "free")
		_, err := storage.EnsureWallet(ctx, concUID, "RUB")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := storage.Deposit(ctx, concUID, 10, "", nil)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		wallet, err := storage.EnsureWallet(ctx, concUID, "RUB")
		require.NoError(t, err)
		assert.Equal(t, 100.0, wallet.Balance)

		var count int
		err = storage.DB.QueryRow(
			"SELECT COUNT(*) FROM wallet_transactions WHERE user_uid = $1", concUID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 10, count)
	})
}

func TestStorage_ListTransactions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	uid := factory.CreateUser(t, "history@example.com", "user", "free")
	_, err := storage.EnsureWallet(ctx, uid, "RUB")
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, _, err := storage.Deposit(ctx, uid, float64(i*100), fmt.Sprintf("deposit %d", i), nil)
		require.NoError(t, err)
	}

	t.Run("returns newest first", func(t *testing.T) {
		items, err := storage.ListTransactions(ctx, uid, 10)
		require.NoError(t, err)
		require.Len(t, items, 5)
		assert.Equal(t, 500.0, items[0].Amount)
		assert.Equal(t, 100.0, items[4].Amount)
		for i := 1; i < len(items); i++ {
			assert.True(t, items[i].ID < items[i-1].ID)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		items, err := storage.ListTransactions(ctx, uid, 2)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 500.0, items[0].Amount)
		assert.Equal(t, 400.0, items[1].Amount)
	})

	t.Run("empty history returns no rows", func(t *testing.T) {
		emptyUID := factory.CreateUser(t, "nohistory@example.com", "user", "free")
		items, err := storage.ListTransactions(ctx, emptyUID, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
