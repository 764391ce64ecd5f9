package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/handler"
	apimiddleware "github.com/dlshad/drawerledger/internal/adapter/http/middleware"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"currency":"USD","amount":"100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drawers/drawer-1/deposits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_AdminRoutesRejectOperators(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.DefaultActor = domain.Actor{ID: "op-1", Role: domain.RoleOperator}
	}))

	body := `{"name":"Front desk"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drawers/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator on admin route, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/settlements/",
		"GET /api/v1/settlements/{id}",
		"POST /api/v1/drawers/",
		"GET /api/v1/drawers/{id}/balances",
		"POST /api/v1/drawers/{id}/deposits",
		"POST /api/v1/drawers/{id}/withdrawals",
		"POST /api/v1/drawers/{id}/adjustments",
		"GET /api/v1/drawers/{id}/ledger",
		"POST /api/v1/drawers/{id}/closings",
		"GET /api/v1/drawers/{id}/closings/snapshot",
		"GET /api/v1/alerts/low-balance",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		SettlementHandler: handler.NewSettlementHandler(&stubSettlementService{}),
		BalanceHandler:    handler.NewBalanceHandler(&stubBalanceService{}),
		DrawerHandler:     handler.NewDrawerHandler(&stubDrawerService{}),
		ClosingHandler:    handler.NewClosingHandler(&stubClosingService{}),
		LedgerHandler:     handler.NewLedgerHandler(&stubLedgerService{}),
		AlertHandler:      handler.NewAlertHandler(&stubAlertService{}),
		HealthHandler:     &handler.HealthHandler{},
		Logger:            zerolog.Nop(),
		DefaultActor:      domain.Actor{ID: "admin-1", Role: domain.RoleAdmin},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubSettlementService struct{}

func (stubSettlementService) Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
	return &usecase.SettleResult{Transaction: &domain.Transaction{ID: "txn"}}, nil
}

func (stubSettlementService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (stubSettlementService) ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

func (stubSettlementService) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	return &domain.DailyProfit{DrawerID: drawerID, Date: day}, nil
}

type stubBalanceService struct{}

func (stubBalanceService) GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubBalanceService) ListBalances(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
	return []*domain.CurrencyBalance{}, nil
}

func (stubBalanceService) Deposit(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	return &domain.CurrencyBalance{DrawerID: input.DrawerID, Currency: input.Currency}, nil
}

func (stubBalanceService) Withdraw(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	return &domain.CurrencyBalance{DrawerID: input.DrawerID, Currency: input.Currency}, nil
}

func (stubBalanceService) Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error) {
	return &usecase.AdjustResult{Balance: &domain.CurrencyBalance{}}, nil
}

type stubDrawerService struct{}

func (stubDrawerService) CreateDrawer(ctx context.Context, input usecase.CreateDrawerInput) (*domain.Drawer, error) {
	return &domain.Drawer{ID: "drawer", Name: input.Name}, nil
}

func (stubDrawerService) GetDrawer(ctx context.Context, id string) (*domain.Drawer, error) {
	return &domain.Drawer{ID: id}, nil
}

func (stubDrawerService) ListDrawers(ctx context.Context, limit, offset int) ([]*domain.Drawer, error) {
	return []*domain.Drawer{}, nil
}

func (stubDrawerService) SetThreshold(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error) {
	return &domain.Drawer{ID: id, LowBalanceAlertAt: threshold}, nil
}

func (stubDrawerService) SetActive(ctx context.Context, id string, active bool, actor domain.Actor) error {
	return nil
}

func (stubDrawerService) OpenDrawer(ctx context.Context, drawerID string, operator domain.Actor) error {
	return nil
}

func (stubDrawerService) ReleaseDrawer(ctx context.Context, operator domain.Actor) error {
	return nil
}

func (stubDrawerService) ActiveDrawer(ctx context.Context, operator domain.Actor) (*domain.Drawer, error) {
	return &domain.Drawer{ID: "drawer"}, nil
}

type stubClosingService struct{}

func (stubClosingService) Snapshot(ctx context.Context, drawerID string) (*domain.ClosingSession, error) {
	return domain.NewClosingSession(drawerID, nil, nil, time.Now()), nil
}

func (stubClosingService) SubmitClosing(ctx context.Context, input usecase.SubmitClosingInput) (*domain.ClosingReport, error) {
	return &domain.ClosingReport{ID: "closing", DrawerID: input.DrawerID}, nil
}

func (stubClosingService) GetClosing(ctx context.Context, id string) (*domain.ClosingReport, error) {
	return &domain.ClosingReport{ID: id}, nil
}

func (stubClosingService) ListClosings(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error) {
	return []*domain.ClosingReport{}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) History(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	return []*domain.LedgerEntry{}, nil
}

func (stubLedgerService) CheckConsistency(ctx context.Context) ([]*usecase.ConsistencyViolation, error) {
	return nil, nil
}

func (stubLedgerService) BalanceFromLedger(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubAlertService struct{}

func (stubAlertService) LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	return []*domain.LowBalanceAlert{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
