package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// LedgerUseCase exposes read-only ledger queries and the invariant check
// that every balance equals the sum of its ledger deltas.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	drawerRepo DrawerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, drawerRepo DrawerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		drawerRepo: drawerRepo,
	}
}

// History lists a drawer's ledger entries, newest first, filtered by
// currency, type and date range.
func (uc *LedgerUseCase) History(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	if filter.Currency != "" {
		if err := domain.ValidateCurrency(filter.Currency); err != nil {
			return nil, err
		}
	}

	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, domain.ErrInvalidEntryType
	}

	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.ledgerRepo.ListByDrawer(ctx, drawerID, filter)
}

// ConsistencyViolation is one (drawer, currency) whose stored balance does
// not equal the sum of its ledger deltas.
type ConsistencyViolation struct {
	DrawerID  string
	Currency  string
	Balance   decimal.Decimal
	LedgerSum decimal.Decimal
}

// CheckConsistency verifies the balance-equals-ledger invariant across every
// balance row. An empty result means the ledger is consistent.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) ([]*ConsistencyViolation, error) {
	return uc.ledgerRepo.FindInconsistencies(ctx)
}

// BalanceFromLedger recomputes one balance purely from ledger deltas.
func (uc *LedgerUseCase) BalanceFromLedger(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return decimal.Zero, err
	}

	return uc.ledgerRepo.SumDeltas(ctx, drawerID, currency)
}
