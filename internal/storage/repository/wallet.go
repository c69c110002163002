package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

// EnsureWallet возвращает кошелёк пользователя, создавая его при первом
// обращении. Уникальный индекс по user_uid служит арбитром гонки: проигравший
// INSERT молча поглощается, и SELECT возвращает строку победителя.
func (s *Storage) EnsureWallet(ctx context.Context, userUID, currency string) (*models.WalletAccount, error) {
	const op = "storage.EnsureWallet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO wallet_accounts (user_uid, balance, currency)
			  VALUES ($1, 0, $2)
			  ON CONFLICT (user_uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, currency); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `SELECT id, user_uid, balance, currency, created_at, updated_at
			 FROM wallet_accounts
			 WHERE user_uid = $1`
	var w models.WalletAccount
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&w.ID, &w.UserUID, &w.Balance, &w.Currency,
		&w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, nil
}

// Deposit пополняет кошелёк и добавляет запись в журнал операций одной
// транзакцией. Инкремент баланса выражен относительным обновлением
// (balance = balance + amount), конкурентные пополнения сериализуются
// блокировкой строки. Любой сбой откатывает оба изменения.
func (s *Storage) Deposit(ctx context.Context, userUID string, amount float64, note string, metadata []byte) (*models.WalletAccount, *models.WalletTransaction, error) {
	const op = "storage.Deposit"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE wallet_accounts
			  SET balance = balance + $1, updated_at = NOW()
			  WHERE user_uid = $2
			  RETURNING id, user_uid, balance, currency, created_at, updated_at`
	var w models.WalletAccount
	if err := tx.QueryRowContext(ctx, query, amount, userUID).Scan(
		&w.ID, &w.UserUID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO wallet_transactions (wallet_id, user_uid, tx_type, amount, status, note, metadata)
			 VALUES ($1, $2, 'deposit', $3, 'completed', $4, $5)
			 RETURNING id, created_at`
	t := models.WalletTransaction{
		WalletID: w.ID,
		UserUID:  userUID,
		TxType:   "deposit",
		Amount:   amount,
		Status:   "completed",
		Note:     note,
		Metadata: metadata,
	}
	if err := tx.QueryRowContext(ctx, query, w.ID, userUID, amount, note, metadata).Scan(
		&t.ID, &t.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, &t, nil
}

// ListTransactions возвращает последние limit операций кошелька пользователя,
// от новых к старым.
func (s *Storage) ListTransactions(ctx context.Context, userUID string, limit int) ([]*models.WalletTransaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, wallet_id, user_uid, tx_type, amount, status, note, metadata, created_at
			  FROM wallet_transactions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WalletTransaction
	for rows.Next() {
		var item models.WalletTransaction
		if err := rows.Scan(&item.ID, &item.WalletID, &item.UserUID, &item.TxType,
			&item.Amount, &item.Status, &item.Note, &item.Metadata, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
