package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

type fakeSettlementService struct {
	result *usecase.SettleResult
	err    error
}

func (f *fakeSettlementService) Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
	return f.result, f.err
}

func (f *fakeSettlementService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return nil, nil
}

func (f *fakeSettlementService) ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	return nil, nil
}

func (f *fakeSettlementService) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	return nil, nil
}

type fakeAlertService struct {
	alerts []*domain.LowBalanceAlert
}

func (f *fakeAlertService) LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	return f.alerts, nil
}

func newTestMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return New()
}

func TestInstrumentedSettlementCountsOutcomes(t *testing.T) {
	m := newTestMetrics()

	flagged := &usecase.SettleResult{
		Transaction: &domain.Transaction{
			ID:             "txn-1",
			DrawerID:       "drawer-1",
			CurrencyIn:     "USD",
			CurrencyOut:    "IQD",
			Profit:         decimal.NewFromInt(500),
			ComplianceFlag: true,
		},
		BalanceIn:  decimal.NewFromInt(1100),
		BalanceOut: decimal.NewFromInt(52000),
	}

	svc := NewInstrumentedSettlement(&fakeSettlementService{result: flagged}, m)
	if _, err := svc.Settle(context.Background(), usecase.SettleInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.SettlementsCompleted); got != 1 {
		t.Fatalf("expected 1 completed settlement, got %v", got)
	}

	if got := testutil.ToFloat64(m.SettlementsFlagged); got != 1 {
		t.Fatalf("expected 1 flagged settlement, got %v", got)
	}

	if got := testutil.ToFloat64(m.DrawerBalance.WithLabelValues("drawer-1", "USD")); got != 1100 {
		t.Fatalf("expected balance gauge 1100, got %v", got)
	}
}

func TestInstrumentedSettlementCountsErrors(t *testing.T) {
	m := newTestMetrics()

	svc := NewInstrumentedSettlement(&fakeSettlementService{err: domain.ErrInsufficientFunds}, m)
	if _, err := svc.Settle(context.Background(), usecase.SettleInput{}); err == nil {
		t.Fatalf("expected error to pass through")
	}

	if got := testutil.ToFloat64(m.SettlementErrors.WithLabelValues("insufficient_funds")); got != 1 {
		t.Fatalf("expected 1 insufficient_funds error, got %v", got)
	}

	if got := testutil.ToFloat64(m.SettlementsCompleted); got != 0 {
		t.Fatalf("expected no completed settlements, got %v", got)
	}
}

func TestInstrumentedAlertTracksGauge(t *testing.T) {
	m := newTestMetrics()

	svc := NewInstrumentedAlert(&fakeAlertService{
		alerts: []*domain.LowBalanceAlert{
			{DrawerID: "drawer-1", Currency: "USD"},
			{DrawerID: "drawer-2", Currency: "EUR"},
		},
	}, m)

	if _, err := svc.LowBalanceAlerts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.LowBalanceAlerts); got != 2 {
		t.Fatalf("expected gauge 2, got %v", got)
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInsufficientFunds, "insufficient_funds"},
		{domain.ErrNoActiveDrawer, "no_active_drawer"},
		{domain.ErrSameCurrency, "validation"},
		{context.DeadlineExceeded, "other"},
	}

	for _, tt := range tests {
		if got := errorType(tt.err); got != tt.want {
			t.Fatalf("errorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
