package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// SettlementService is the settlement surface wrapped by
// InstrumentedSettlement.
type SettlementService interface {
	Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error)
	DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error)
}

// InstrumentedSettlement records settlement metrics around the wrapped
// service. Reads pass through untouched.
type InstrumentedSettlement struct {
	SettlementService

	metrics *Metrics
}

// NewInstrumentedSettlement wraps svc with settlement metrics.
func NewInstrumentedSettlement(svc SettlementService, m *Metrics) *InstrumentedSettlement {
	return &InstrumentedSettlement{SettlementService: svc, metrics: m}
}

// Settle records duration, outcome and profit of one settlement.
func (s *InstrumentedSettlement) Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
	start := time.Now()

	result, err := s.SettlementService.Settle(ctx, input)
	s.metrics.SettlementDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.SettlementErrors.WithLabelValues(errorType(err)).Inc()
		return nil, err
	}

	s.metrics.SettlementsCompleted.Inc()
	s.metrics.SettlementProfit.Observe(result.Transaction.Profit.InexactFloat64())

	if result.Transaction.ComplianceFlag {
		s.metrics.SettlementsFlagged.Inc()
	}

	s.metrics.DrawerBalance.WithLabelValues(result.Transaction.DrawerID, result.Transaction.CurrencyIn).Set(result.BalanceIn.InexactFloat64())
	s.metrics.DrawerBalance.WithLabelValues(result.Transaction.DrawerID, result.Transaction.CurrencyOut).Set(result.BalanceOut.InexactFloat64())

	return result, nil
}

// BalanceService is the balance surface wrapped by InstrumentedBalance.
type BalanceService interface {
	GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	ListBalances(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error)
	Deposit(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	Withdraw(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error)
}

// InstrumentedBalance records balance-movement metrics around the wrapped
// service.
type InstrumentedBalance struct {
	BalanceService

	metrics *Metrics
}

// NewInstrumentedBalance wraps svc with balance metrics.
func NewInstrumentedBalance(svc BalanceService, m *Metrics) *InstrumentedBalance {
	return &InstrumentedBalance{BalanceService: svc, metrics: m}
}

// Deposit counts the movement and tracks the resulting balance.
func (s *InstrumentedBalance) Deposit(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	balance, err := s.BalanceService.Deposit(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordMovement(domain.EntryTypeDeposit, balance)

	return balance, nil
}

// Withdraw counts the movement and tracks the resulting balance.
func (s *InstrumentedBalance) Withdraw(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	balance, err := s.BalanceService.Withdraw(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordMovement(domain.EntryTypeWithdrawal, balance)

	return balance, nil
}

// Adjust counts the movement and tracks the resulting balance.
func (s *InstrumentedBalance) Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error) {
	result, err := s.BalanceService.Adjust(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordMovement(domain.EntryTypeAdjustment, result.Balance)

	return result, nil
}

func (s *InstrumentedBalance) recordMovement(entryType domain.EntryType, balance *domain.CurrencyBalance) {
	s.metrics.BalanceMovements.WithLabelValues(string(entryType)).Inc()
	s.metrics.DrawerBalance.WithLabelValues(balance.DrawerID, balance.Currency).Set(balance.Balance.InexactFloat64())
}

// ClosingService is the closing surface wrapped by InstrumentedClosing.
type ClosingService interface {
	Snapshot(ctx context.Context, drawerID string) (*domain.ClosingSession, error)
	SubmitClosing(ctx context.Context, input usecase.SubmitClosingInput) (*domain.ClosingReport, error)
	GetClosing(ctx context.Context, id string) (*domain.ClosingReport, error)
	ListClosings(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error)
}

// InstrumentedClosing records closing metrics around the wrapped service.
type InstrumentedClosing struct {
	ClosingService

	metrics *Metrics
}

// NewInstrumentedClosing wraps svc with closing metrics.
func NewInstrumentedClosing(svc ClosingService, m *Metrics) *InstrumentedClosing {
	return &InstrumentedClosing{ClosingService: svc, metrics: m}
}

// SubmitClosing counts submitted closings and those carrying a variance.
func (s *InstrumentedClosing) SubmitClosing(ctx context.Context, input usecase.SubmitClosingInput) (*domain.ClosingReport, error) {
	report, err := s.ClosingService.SubmitClosing(ctx, input)
	if err != nil {
		return nil, err
	}

	s.metrics.ClosingsSubmitted.Inc()

	for _, entry := range report.Entries {
		if !entry.Variance.IsZero() {
			s.metrics.ClosingsWithVariance.Inc()
			break
		}
	}

	return report, nil
}

// AlertService is the alert surface wrapped by InstrumentedAlert.
type AlertService interface {
	LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error)
}

// InstrumentedAlert tracks the current number of low-balance alerts.
type InstrumentedAlert struct {
	AlertService

	metrics *Metrics
}

// NewInstrumentedAlert wraps svc with alert metrics.
func NewInstrumentedAlert(svc AlertService, m *Metrics) *InstrumentedAlert {
	return &InstrumentedAlert{AlertService: svc, metrics: m}
}

// LowBalanceAlerts updates the alert gauge with each pull.
func (s *InstrumentedAlert) LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	alerts, err := s.AlertService.LowBalanceAlerts(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.LowBalanceAlerts.Set(float64(len(alerts)))

	return alerts, nil
}

// errorType buckets settlement failures for the error counter.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrNoActiveDrawer):
		return "no_active_drawer"
	case errors.Is(err, domain.ErrDrawerInactive):
		return "drawer_inactive"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrSameCurrency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidRate):
		return "validation"
	default:
		return "other"
	}
}
