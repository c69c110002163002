// Package services содержит сборку административной сводки: агрегаты по
// пользователям, арендам и кошелькам. Только чтение, без побочных эффектов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/showcase-backend/internal/apperr"
	"github.com/magabrotheeeer/showcase-backend/internal/models"
	"github.com/magabrotheeeer/showcase-backend/internal/storage/repository"
)

const (
	recentTransactionsLimit = 20
	topWalletsLimit         = 10
)

// StatsRepository определяет агрегирующие запросы хранилища.
type StatsRepository interface {
	// CollectTotals возвращает счётчики и суммы по таблицам ядра.
	CollectTotals(ctx context.Context) (*repository.Totals, error)
	// ListRecentTransactions возвращает последние операции с данными владельца.
	ListRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionView, error)
	// ListTopWallets возвращает кошельки с наибольшим балансом.
	ListTopWallets(ctx context.Context, k int) ([]*models.WalletAccount, error)
}

// Snapshot — составная сводка для административной панели.
// На пустой базе все счётчики и суммы равны нулю.
type Snapshot struct {
	TotalUsers         int                       `json:"total_users"`
	ActiveRentals      int                       `json:"active_rentals"`
	RentalRevenue      float64                   `json:"rental_revenue"`
	WalletBalanceTotal float64                   `json:"wallet_balance_total"`
	DepositVolume      float64                   `json:"deposit_volume"`
	TotalVideoJobs     int                       `json:"total_video_jobs"`
	RecentTransactions []*models.TransactionView `json:"recent_transactions"`
	TopWallets         []*models.WalletAccount   `json:"top_wallets"`
}

// StatsService реализует сборку административной сводки.
type StatsService struct {
	repo StatsRepository
	log  *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(repo StatsRepository, log *slog.Logger) *StatsService {
	return &StatsService{
		repo: repo,
		log:  log,
	}
}

// GetSnapshot выполняет независимые агрегирующие запросы и собирает сводку.
func (s *StatsService) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	const op = "services.stats.GetSnapshot"

	totals, err := s.repo.CollectTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	recent, err := s.repo.ListRecentTransactions(ctx, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}
	topWallets, err := s.repo.ListTopWallets(ctx, topWalletsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStorage, err))
	}

	return &Snapshot{
		TotalUsers:         totals.TotalUsers,
		ActiveRentals:      totals.ActiveRentals,
		RentalRevenue:      totals.RentalRevenue,
		WalletBalanceTotal: totals.WalletBalance,
		DepositVolume:      totals.DepositVolume,
		TotalVideoJobs:     totals.TotalVideoJobs,
		RecentTransactions: recent,
		TopWallets:         topWallets,
	}, nil
}
