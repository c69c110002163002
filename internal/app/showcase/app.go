package showcase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/showcase-backend/internal/cache"
	"github.com/magabrotheeeer/showcase-backend/internal/config"
	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/showcase-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/showcase-backend/internal/migrations"
	rentalservice "github.com/magabrotheeeer/showcase-backend/internal/services/rental"
	statsservice "github.com/magabrotheeeer/showcase-backend/internal/services/stats"
	videojobservice "github.com/magabrotheeeer/showcase-backend/internal/services/videojob"
	walletservice "github.com/magabrotheeeer/showcase-backend/internal/services/wallet"
	"github.com/magabrotheeeer/showcase-backend/internal/showcase"
	"github.com/magabrotheeeer/showcase-backend/internal/storage/repository"
)

const defaultCurrency = "RUB"

// App собирает зависимости и HTTP-сервер основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	events *rabbitmq.Publisher
}

// New подключает хранилище, кеш и брокер, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	events, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, err
	}

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	rateLimiter := middlewarectx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL)
	showcaseClient := showcase.NewClient(cfg.Showcase.BaseURL)

	walletService := walletservice.NewWalletService(db, events, logger, defaultCurrency)
	rentalService := rentalservice.NewRentalService(db, cacheRedis, events, logger)
	videoJobService := videojobservice.NewVideoJobService(db, rentalService, showcaseClient, events, logger)
	statsService := statsservice.NewStatsService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, rateLimiter,
		walletService, rentalService, videoJobService, statsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		events: events,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.events.Close()
		_ = a.db.DB.Close()
		return err
	}
}
