// Package services содержит бизнес-логику кошелька: ленивое создание счёта,
// пополнение с журналированием и чтение истории операций.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
)

const (
	// MaxDepositAmount — верхняя граница одного пополнения.
	MaxDepositAmount = 1_000_000
	// MaxNoteLength — предел длины комментария к операции.
	MaxNoteLength = 255
	// MaxTransactionsLimit — максимальный размер выборки истории операций.
	MaxTransactionsLimit = 100
)

// WalletRepository определяет методы для работы с кошельками в хранилище.
type WalletRepository interface {
	// EnsureWallet возвращает кошелёк пользователя, создавая его при первом обращении.
	EnsureWallet(ctx context.Context, userUID, currency string) (*models.WalletAccount, error)
	// Deposit атомарно пополняет баланс и добавляет запись в журнал.
	Deposit(ctx context.Context, userUID string, amount float64, note string, metadata []byte) (*models.WalletAccount, *models.WalletTransaction, error)
	// ListTransactions возвращает последние операции кошелька, от новых к старым.
	ListTransactions(ctx context.Context, userUID string, limit int) ([]*models.WalletTransaction, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// EventPublisher описывает публикацию доменных событий для внешних потребителей.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// DepositEvent — событие о завершённом пополнении кошелька.
type DepositEvent struct {
	UserUID   string    `json:"user_uid"`
	Email     string    `json:"email,omitempty"`
	Amount    float64   `json:"amount"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// WalletService реализует бизнес-логику кошелька.
type WalletService struct {
	repo     WalletRepository
	events   EventPublisher
	log      *slog.Logger
	currency string
}

// NewWalletService создает новый экземпляр WalletService.
func NewWalletService(repo WalletRepository, events EventPublisher, log *slog.Logger, currency string) *WalletService {
	return &WalletService{
		repo:     repo,
		events:   events,
		log:      log,
		currency: currency,
	}
}

// GetBalance возвращает кошелёк пользователя, создавая его при первом обращении.
func (s *WalletService) GetBalance(ctx context.Context, userUID string) (*models.WalletAccount, error) {
	const op = "services.wallet.GetBalance"
	wallet, err := s.repo.EnsureWallet(ctx, userUID, s.currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	return wallet, nil
}

// Deposit валидирует сумму, обрезает комментарий и выполняет пополнение.
// Оба изменения (баланс и запись журнала) фиксируются одной транзакцией;
// при любой ошибке хранилища баланс остаётся прежним и операцию можно повторить.
func (s *WalletService) Deposit(ctx context.Context, userUID string, req models.DummyDeposit) (*models.WalletAccount, *models.WalletTransaction, error) {
	const op = "services.wallet.Deposit"

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, nil, fmt.Errorf("%w: amount must be a finite number", apperr.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be greater than zero", apperr.ErrValidation)
	}
	if req.Amount > MaxDepositAmount {
		return nil, nil, fmt.Errorf("%w: amount exceeds maximum of %d", apperr.ErrValidation, MaxDepositAmount)
	}

	note := req.Note
	if runes := []rune(note); len(runes) > MaxNoteLength {
		note = string(runes[:MaxNoteLength])
	}

	if _, err := s.repo.EnsureWallet(ctx, userUID, s.currency); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}

	wallet, transaction, err := s.repo.Deposit(ctx, userUID, req.Amount, note, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	s.log.Info("deposit completed",
		slog.String("user_uid", userUID),
		slog.Float64("amount", req.Amount),
		slog.Int("transaction_id", transaction.ID))

	s.publishDepositEvent(ctx, userUID, wallet, transaction)

	return wallet, transaction, nil
}

// ListTransactions возвращает последние операции кошелька пользователя.
func (s *WalletService) ListTransactions(ctx context.Context, userUID string, limit int) ([]*models.WalletTransaction, error) {
	const op = "services.wallet.ListTransactions"
	if limit <= 0 || limit > MaxTransactionsLimit {
		limit = MaxTransactionsLimit
	}
	result, err := s.repo.ListTransactions(ctx, userUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	return result, nil
}

// publishDepositEvent публикует событие о пополнении. Транзакция уже
// зафиксирована, поэтому сбой публикации только логируется.
func (s *WalletService) publishDepositEvent(ctx context.Context, userUID string, wallet *models.WalletAccount, transaction *models.WalletTransaction) {
	event := DepositEvent{
		UserUID:   userUID,
		Amount:    transaction.Amount,
		Balance:   wallet.Balance,
		CreatedAt: transaction.CreatedAt,
	}
	if user, err := s.repo.GetUser(ctx, userUID); err == nil {
		event.Email = user.Email
	}
	if err := s.events.Publish("wallet.deposit.completed", event); err != nil {
		s.log.Warn("failed to publish deposit event", sl.Err(err))
	}
}
