package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dlshad/drawerledger/internal/adapter/http/handler"
	"github.com/dlshad/drawerledger/internal/adapter/http/middleware"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/infrastructure/auth"
	"github.com/dlshad/drawerledger/internal/infrastructure/metrics"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SettlementHandler *handler.SettlementHandler
	BalanceHandler    *handler.BalanceHandler
	DrawerHandler     *handler.DrawerHandler
	ClosingHandler    *handler.ClosingHandler
	LedgerHandler     *handler.LedgerHandler
	AlertHandler      *handler.AlertHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger

	// JWTManager enables token authentication; when nil every request runs
	// as DefaultActor.
	JWTManager   *auth.JWTManager
	DefaultActor domain.Actor
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		} else {
			r.Use(middleware.StaticActor(cfg.DefaultActor))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Drawers
		r.Route("/drawers", func(r chi.Router) {
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/", cfg.DrawerHandler.Create)
			r.Get("/", cfg.DrawerHandler.List)
			r.Get("/active", cfg.DrawerHandler.Active)
			r.Post("/release", cfg.DrawerHandler.Release)
			r.Get("/{id}", cfg.DrawerHandler.Get)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Put("/{id}/threshold", cfg.DrawerHandler.SetThreshold)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Put("/{id}/active", cfg.DrawerHandler.SetActive)
			r.Post("/{id}/open", cfg.DrawerHandler.Open)

			r.Get("/{id}/balances", cfg.BalanceHandler.List)
			r.Get("/{id}/balances/{currency}", cfg.BalanceHandler.Get)
			r.Post("/{id}/deposits", cfg.BalanceHandler.Deposit)
			r.Post("/{id}/withdrawals", cfg.BalanceHandler.Withdraw)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/{id}/adjustments", cfg.BalanceHandler.Adjust)

			r.Get("/{id}/ledger", cfg.LedgerHandler.History)
			r.Get("/{id}/ledger/balance", cfg.LedgerHandler.BalanceFromLedger)
			r.Get("/{id}/transactions", cfg.SettlementHandler.ListByDrawer)
			r.Get("/{id}/profit/daily", cfg.SettlementHandler.DailyProfit)

			r.Get("/{id}/closings", cfg.ClosingHandler.ListByDrawer)
			r.Post("/{id}/closings", cfg.ClosingHandler.Submit)
			r.Get("/{id}/closings/snapshot", cfg.ClosingHandler.Snapshot)
		})

		// Settlements
		r.Route("/settlements", func(r chi.Router) {
			r.Post("/", cfg.SettlementHandler.Settle)
			r.Get("/{id}", cfg.SettlementHandler.Get)
		})

		r.Get("/closings/{id}", cfg.ClosingHandler.Get)
		r.Get("/alerts/low-balance", cfg.AlertHandler.LowBalance)
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
	})

	return r
}
