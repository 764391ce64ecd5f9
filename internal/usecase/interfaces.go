package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// BalanceRepository defines data access for per-(drawer, currency) balances.
type BalanceRepository interface {
	// GetBalance returns the current balance, or zero when no row exists.
	GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	// LockForUpdate creates missing rows with a zero balance, then locks the
	// requested rows with SELECT ... FOR UPDATE in ascending currency order.
	// Rows created for a unit that later aborts are rolled back with it.
	LockForUpdate(ctx context.Context, tx Transaction, drawerID string, currencies []string) (map[string]*domain.CurrencyBalance, error)
	// UpdateBalance writes a new balance for a row previously locked in tx.
	UpdateBalance(ctx context.Context, tx Transaction, drawerID, currency string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error
	ListByDrawer(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error)
	// ListLowBalances returns one alert per (drawer, currency) where the
	// drawer threshold is positive and the balance is below it.
	ListLowBalances(ctx context.Context) ([]*domain.LowBalanceAlert, error)
}

// LedgerRepository defines append-only data access for ledger entries.
type LedgerRepository interface {
	Append(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByDrawer(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	// SumDeltas returns the sum of signed ledger deltas for one balance row.
	SumDeltas(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	// FindInconsistencies returns every (drawer, currency) whose stored
	// balance differs from the sum of its ledger deltas.
	FindInconsistencies(ctx context.Context) ([]*ConsistencyViolation, error)
}

// TransactionRepository defines data access for exchange transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error)
	DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error)
}

// DrawerRepository defines data access for drawers.
type DrawerRepository interface {
	Create(ctx context.Context, drawer *domain.Drawer) error
	GetByID(ctx context.Context, id string) (*domain.Drawer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Drawer, error)
	UpdateThreshold(ctx context.Context, id string, threshold decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
}

// ClosingRepository defines data access for closing reports. Reports are
// immutable once created.
type ClosingRepository interface {
	Create(ctx context.Context, report *domain.ClosingReport) error
	GetByID(ctx context.Context, id string) (*domain.ClosingReport, error)
	ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error)
	// LastForDrawer returns the most recent report, or nil when the drawer
	// has never been closed.
	LastForDrawer(ctx context.Context, drawerID string) (*domain.ClosingReport, error)
}

// CustomerRepository defines data access for the customer directory.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

// CustomerDirectory resolves a settlement's customer reference before the
// settlement unit begins. Resolution failures abort the whole request with
// no settlement side effects.
type CustomerDirectory interface {
	Resolve(ctx context.Context, ref domain.CustomerRef) (*domain.Customer, error)
}

// ComplianceEvaluator is the external rule evaluator consulted for every
// pending transaction. Its result is recorded on the transaction; the
// configured action is not enforced by settlement.
type ComplianceEvaluator interface {
	Evaluate(ctx context.Context, txn *domain.Transaction, customer *domain.Customer) (domain.ComplianceResult, error)
}

// SettlementBroadcaster is the best-effort real-time notification sink.
// Broadcast must never fail a settlement; implementations drop events
// rather than block.
type SettlementBroadcaster interface {
	Broadcast(event domain.SettlementEvent)
}

// ShiftRegistry tracks which drawer each operator currently works from.
type ShiftRegistry interface {
	// Open assigns the drawer to the operator for the current shift.
	Open(ctx context.Context, operatorID, drawerID string) error
	// Release clears the operator's assignment.
	Release(ctx context.Context, operatorID string) error
	// ActiveDrawer returns the operator's open drawer id, or
	// domain.ErrNoActiveDrawer.
	ActiveDrawer(ctx context.Context, operatorID string) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
