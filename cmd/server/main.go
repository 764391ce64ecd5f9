package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/dlshad/drawerledger/internal/adapter/http"
	"github.com/dlshad/drawerledger/internal/adapter/http/handler"
	"github.com/dlshad/drawerledger/internal/adapter/http/middleware"
	postgresRepo "github.com/dlshad/drawerledger/internal/adapter/repository/postgres"
	redisRepo "github.com/dlshad/drawerledger/internal/adapter/repository/redis"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/infrastructure/auth"
	"github.com/dlshad/drawerledger/internal/infrastructure/broadcast"
	"github.com/dlshad/drawerledger/internal/infrastructure/compliance"
	"github.com/dlshad/drawerledger/internal/infrastructure/config"
	"github.com/dlshad/drawerledger/internal/infrastructure/logger"
	"github.com/dlshad/drawerledger/internal/infrastructure/metrics"
	"github.com/dlshad/drawerledger/internal/infrastructure/postgres"
	"github.com/dlshad/drawerledger/internal/infrastructure/redis"
	"github.com/dlshad/drawerledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run database migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize metrics
	m := metrics.New()
	go trackPoolStats(ctx, pool, m)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool, appLogger)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	drawerRepo := postgresRepo.NewDrawerRepository(pool)
	closingRepo := postgresRepo.NewClosingRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	shifts := redisRepo.NewShiftRegistry(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Compliance evaluator
	threshold, err := decimal.NewFromString(cfg.ComplianceThreshold)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.ComplianceThreshold).Msg("invalid compliance threshold")
	}
	evaluator := compliance.NewThresholdEvaluator(threshold)

	// Settlement event broadcaster
	broadcaster := broadcast.New(broadcast.Config{
		Client:    redisClient,
		Buffer:    cfg.BroadcastBuffer,
		Logger:    appLogger,
		OnPublish: m.EventsBroadcast.Inc,
		OnDrop:    m.EventsDropped.Inc,
	})
	go broadcaster.Start(ctx)

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(customerRepo, idGen)
	settlementUC := usecase.NewSettlementUseCase(txManager, balanceRepo, ledgerRepo, transactionRepo, drawerRepo, shifts, customerUC, evaluator, broadcaster, idGen, appLogger)
	balanceUC := usecase.NewBalanceUseCase(txManager, balanceRepo, ledgerRepo, drawerRepo, idGen)
	drawerUC := usecase.NewDrawerUseCase(drawerRepo, shifts, idGen)
	closingUC := usecase.NewClosingUseCase(balanceRepo, drawerRepo, closingRepo, idGen, appLogger)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, drawerRepo)
	alertUC := usecase.NewAlertUseCase(balanceRepo)

	// Initialize handlers, instrumenting the services that move money
	settlementHandler := handler.NewSettlementHandler(metrics.NewInstrumentedSettlement(settlementUC, m))
	balanceHandler := handler.NewBalanceHandler(metrics.NewInstrumentedBalance(balanceUC, m))
	drawerHandler := handler.NewDrawerHandler(drawerUC)
	closingHandler := handler.NewClosingHandler(metrics.NewInstrumentedClosing(closingUC, m))
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	alertHandler := handler.NewAlertHandler(metrics.NewInstrumentedAlert(alertUC, m))
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Token authentication, optional
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("token authentication enabled")
	} else {
		log.Warn().Msg("token authentication disabled, all requests run as the system actor")
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SettlementHandler: settlementHandler,
		BalanceHandler:    balanceHandler,
		DrawerHandler:     drawerHandler,
		ClosingHandler:    closingHandler,
		LedgerHandler:     ledgerHandler,
		AlertHandler:      alertHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		Metrics:           m,
		Logger:            appLogger,
		JWTManager:        jwtManager,
		DefaultActor:      domain.Actor{ID: "system", Role: domain.RoleAdmin},
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	stop()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	broadcaster.Stop(cfg.HTTPShutdownTimeout)

	log.Info().Msg("server stopped")
}

// trackPoolStats keeps the connection gauge aligned with the pgx pool.
func trackPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
