package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	Logger           zerolog.Logger
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	LoginRateLimit   float64
	LoginRateBurst   int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and observability
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/register", cfg.AuthHandler.Register)
		r.With(loginLimiter.Limit).Post("/login", cfg.AuthHandler.Login)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotency.Wrap)
			}

			r.Get("/me", cfg.AuthHandler.Me)
			r.Put("/me", cfg.AuthHandler.Update)
			r.Delete("/me", cfg.AuthHandler.Delete)

			r.Get("/balance", cfg.AccountHandler.Balance)
			r.Get("/accounts", cfg.AccountHandler.List)

			r.Route("/transfers", func(r chi.Router) {
				r.Post("/", cfg.TransferHandler.Create)
				r.Get("/", cfg.TransferHandler.ListMine)
				r.Get("/{ref}", cfg.TransferHandler.Get)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/balances/csv", cfg.ReportHandler.ExportBalancesCSV)
				r.Get("/total-transferred", cfg.ReportHandler.TotalTransferred)
				r.Get("/average-transferred", cfg.ReportHandler.AverageTransferred)
				r.Get("/consistency", cfg.ReportHandler.Consistency)
			})
		})
	})

	return r
}
