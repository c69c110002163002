// Package showcase предоставляет сборку и маршруты основного приложения.
package showcase

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminstats "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/admin/stats"
	"github.com/magabrotheeeer/showcase-backend/internal/http/handlers/health"
	rentalactive "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/rental/active"
	rentalplans "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/rental/plans"
	rentalsubscribe "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/rental/subscribe"
	videojobcreate "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/videojob/create"
	walletbalance "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/wallet/balance"
	walletdeposit "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/wallet/deposit"
	wallettransactions "github.com/magabrotheeeer/showcase-backend/internal/http/handlers/wallet/transactions"
	"github.com/magabrotheeeer/showcase-backend/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/showcase-backend/internal/lib/jwt"
	rentalservice "github.com/magabrotheeeer/showcase-backend/internal/services/rental"
	statsservice "github.com/magabrotheeeer/showcase-backend/internal/services/stats"
	videojobservice "github.com/magabrotheeeer/showcase-backend/internal/services/videojob"
	walletservice "github.com/magabrotheeeer/showcase-backend/internal/services/wallet"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	jwtMaker *libjwt.MakerImpl, rateLimiter *middlewarectx.RateLimiter,
	walletService *walletservice.WalletService,
	rentalService *rentalservice.RentalService,
	videoJobService *videojobservice.VideoJobService,
	statsService *statsservice.StatsService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(rateLimiter, logger))
			r.Get("/wallet", walletbalance.New(logger, walletService).ServeHTTP)
			r.Post("/wallet/deposit", walletdeposit.New(logger, walletService).ServeHTTP)
			r.Get("/wallet/transactions", wallettransactions.New(logger, walletService).ServeHTTP)
			r.Get("/plans", rentalplans.New(logger, rentalService).ServeHTTP)
			r.Post("/rentals/subscribe", rentalsubscribe.New(logger, rentalService).ServeHTTP)
			r.Get("/rentals/active", rentalactive.New(logger, rentalService).ServeHTTP)
			r.Post("/videojobs", videojobcreate.New(logger, videoJobService).ServeHTTP)
			r.Get("/admin/stats", adminstats.New(logger, statsService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
