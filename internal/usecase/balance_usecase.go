package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// BalanceUseCase owns the cash movements on a single (drawer, currency)
// balance: deposits, withdrawals and administrator adjustments. Every
// mutation locks the exact row before the validating read and writes exactly
// one ledger entry in the same transaction.
type BalanceUseCase struct {
	txManager   TransactionManager
	balanceRepo BalanceRepository
	ledgerRepo  LedgerRepository
	drawerRepo  DrawerRepository
	idGen       IDGenerator
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	balanceRepo BalanceRepository,
	ledgerRepo LedgerRepository,
	drawerRepo DrawerRepository,
	idGen IDGenerator,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:   txManager,
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		drawerRepo:  drawerRepo,
		idGen:       idGen,
	}
}

// GetBalance returns the current balance, zero when the pair has never been
// credited.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return decimal.Zero, err
	}

	return uc.balanceRepo.GetBalance(ctx, drawerID, currency)
}

// ListBalances returns all balances held by a drawer.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	return uc.balanceRepo.ListByDrawer(ctx, drawerID)
}

// MoveInput is the input for a deposit or withdrawal.
type MoveInput struct {
	DrawerID string
	Currency string
	Amount   decimal.Decimal
	Notes    string
	Actor    domain.Actor
}

// Deposit credits amount to the drawer's balance, creating the balance row
// on first credit.
func (uc *BalanceUseCase) Deposit(ctx context.Context, input MoveInput) (*domain.CurrencyBalance, error) {
	return uc.move(ctx, input, domain.EntryTypeDeposit)
}

// Withdraw debits amount from the drawer's balance. It fails with
// domain.ErrInsufficientFunds when amount exceeds the current balance, and
// leaves the balance untouched.
func (uc *BalanceUseCase) Withdraw(ctx context.Context, input MoveInput) (*domain.CurrencyBalance, error) {
	return uc.move(ctx, input, domain.EntryTypeWithdrawal)
}

func (uc *BalanceUseCase) move(ctx context.Context, input MoveInput, entryType domain.EntryType) (*domain.CurrencyBalance, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	drawer, err := uc.drawerRepo.GetByID(ctx, input.DrawerID)
	if err != nil {
		return nil, err
	}

	if !drawer.Active {
		return nil, domain.ErrDrawerInactive
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	balances, err := uc.balanceRepo.LockForUpdate(ctx, tx, input.DrawerID, []string{input.Currency})
	if err != nil {
		return nil, err
	}

	balance := balances[input.Currency]

	var newBalance decimal.Decimal

	switch entryType {
	case domain.EntryTypeDeposit:
		newBalance = balance.ApplyCredit(input.Amount)
	case domain.EntryTypeWithdrawal:
		if err := balance.ValidateDebit(input.Amount); err != nil {
			return nil, err
		}

		newBalance = balance.ApplyDebit(input.Amount)
	default:
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	err = uc.balanceRepo.UpdateBalance(ctx, tx, input.DrawerID, input.Currency, newBalance, input.Actor.ID, now)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		DrawerID:      input.DrawerID,
		Currency:      input.Currency,
		Type:          entryType,
		Amount:        input.Amount,
		BalanceBefore: balance.Balance,
		BalanceAfter:  newBalance,
		ReferenceType: domain.ReferenceTypeManual,
		PerformedBy:   input.Actor.ID,
		CreatedAt:     now,
	}

	if err := uc.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	balance.Balance = newBalance
	balance.LastUpdatedBy = input.Actor.ID
	balance.UpdatedAt = now

	return balance, nil
}

// AdjustInput is the input for setting an absolute balance.
type AdjustInput struct {
	DrawerID string
	Currency string
	// NewBalance replaces the current balance; the signed ledger delta is
	// derived from the difference.
	NewBalance decimal.Decimal
	Reason     string
	// ClosingReportID, when set, records the adjustment as a reconciliation
	// correction referencing that report.
	ClosingReportID string
	Actor           domain.Actor
}

// AdjustResult carries the updated balance and the signed delta that was
// written to the ledger.
type AdjustResult struct {
	Balance *domain.CurrencyBalance
	Delta   decimal.Decimal
}

// Adjust sets the balance to an absolute value. Administrator only, and the
// justification is validated before any balance mutation occurs.
func (uc *BalanceUseCase) Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if !input.Actor.Role.CanAdjust() {
		return nil, domain.ErrUnauthorized
	}

	if err := domain.ValidateAdjustmentReason(input.Reason); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.NewBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := uc.drawerRepo.GetByID(ctx, input.DrawerID); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	balances, err := uc.balanceRepo.LockForUpdate(ctx, tx, input.DrawerID, []string{input.Currency})
	if err != nil {
		return nil, err
	}

	balance := balances[input.Currency]
	delta := input.NewBalance.Sub(balance.Balance)
	now := time.Now().UTC()

	err = uc.balanceRepo.UpdateBalance(ctx, tx, input.DrawerID, input.Currency, input.NewBalance, input.Actor.ID, now)
	if err != nil {
		return nil, err
	}

	entryType := domain.EntryTypeAdjustment
	referenceType := domain.ReferenceTypeManual
	referenceID := ""

	if input.ClosingReportID != "" {
		entryType = domain.EntryTypeReconciliation
		referenceType = domain.ReferenceTypeClosingReport
		referenceID = input.ClosingReportID
	}

	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		DrawerID:      input.DrawerID,
		Currency:      input.Currency,
		Type:          entryType,
		Amount:        delta.Abs(),
		BalanceBefore: balance.Balance,
		BalanceAfter:  input.NewBalance,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		PerformedBy:   input.Actor.ID,
		CreatedAt:     now,
	}

	if err := uc.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	balance.Balance = input.NewBalance
	balance.LastUpdatedBy = input.Actor.ID
	balance.UpdatedAt = now

	return &AdjustResult{Balance: balance, Delta: delta}, nil
}
