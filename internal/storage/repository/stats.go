package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// Totals содержит агрегаты для административной сводки. Суммы на пустых
// таблицах равны нулю, а не NULL.
type Totals struct {
	TotalUsers     int     // Всего пользователей
	ActiveRentals  int     // Действующих аренд
	RentalRevenue  float64 // Суммарная выручка от аренды тарифов
	WalletBalance  float64 // Суммарный баланс всех кошельков
	DepositVolume  float64 // Суммарный объём завершённых пополнений
	TotalVideoJobs int     // Всего видеозаданий
}

// CollectTotals выполняет агрегирующие запросы по всем таблицам ядра.
// Запросы только читают данные.
func (s *Storage) CollectTotals(ctx context.Context) (*Totals, error) {
	const op = "storage.CollectTotals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM users),
			      (SELECT COUNT(*) FROM user_rentals WHERE status = 'active'),
			      (SELECT COALESCE(SUM(total_price), 0) FROM user_rentals),
			      (SELECT COALESCE(SUM(balance), 0) FROM wallet_accounts),
			      (SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
			          WHERE tx_type = 'deposit' AND status = 'completed'),
			      (SELECT COUNT(*) FROM video_jobs)`
	var t Totals
	row := s.DB.QueryRowContext(ctx, query)
	if err := row.Scan(&t.TotalUsers, &t.ActiveRentals, &t.RentalRevenue,
		&t.WalletBalance, &t.DepositVolume, &t.TotalVideoJobs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// ListRecentTransactions возвращает последние limit операций по всем
// кошелькам вместе с почтой владельца, от новых к старым.
func (s *Storage) ListRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionView, error) {
	const op = "storage.ListRecentTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.wallet_id, t.user_uid, t.tx_type, t.amount, t.status,
			      t.note, t.created_at, u.email
			  FROM wallet_transactions t
			  JOIN users u ON t.user_uid = u.uid
			  ORDER BY t.created_at DESC, t.id DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TransactionView
	for rows.Next() {
		var item models.TransactionView
		if err := rows.Scan(&item.ID, &item.WalletID, &item.UserUID, &item.TxType,
			&item.Amount, &item.Status, &item.Note, &item.CreatedAt, &item.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTopWallets возвращает k кошельков с наибольшим балансом.
func (s *Storage) ListTopWallets(ctx context.Context, k int) ([]*models.WalletAccount, error) {
	const op = "storage.ListTopWallets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, balance, currency, created_at, updated_at
			  FROM wallet_accounts
			  ORDER BY balance DESC, id
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WalletAccount
	for rows.Next() {
		var item models.WalletAccount
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Balance, &item.Currency,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
