package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// SettlementUseCase coordinates a two-currency exchange: one transaction
// record, one debit leg, one credit leg and two ledger entries, all inside a
// single database transaction. Either everything commits or nothing does.
type SettlementUseCase struct {
	txManager       TransactionManager
	balanceRepo     BalanceRepository
	ledgerRepo      LedgerRepository
	transactionRepo TransactionRepository
	drawerRepo      DrawerRepository
	shifts          ShiftRegistry
	customers       CustomerDirectory
	compliance      ComplianceEvaluator
	broadcaster     SettlementBroadcaster
	idGen           IDGenerator
	logger          zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	balanceRepo BalanceRepository,
	ledgerRepo LedgerRepository,
	transactionRepo TransactionRepository,
	drawerRepo DrawerRepository,
	shifts ShiftRegistry,
	customers CustomerDirectory,
	compliance ComplianceEvaluator,
	broadcaster SettlementBroadcaster,
	idGen IDGenerator,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:       txManager,
		balanceRepo:     balanceRepo,
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		drawerRepo:      drawerRepo,
		shifts:          shifts,
		customers:       customers,
		compliance:      compliance,
		broadcaster:     broadcaster,
		idGen:           idGen,
		logger:          logger,
	}
}

// SettleInput represents one exchange request. The operator's open drawer is
// resolved through the shift registry.
type SettleInput struct {
	Operator    domain.Actor
	CurrencyIn  string
	CurrencyOut string
	AmountIn    decimal.Decimal
	AmountOut   decimal.Decimal
	AppliedRate decimal.Decimal
	// MarketRate defaults to AppliedRate when nil.
	MarketRate  *decimal.Decimal
	CustomerRef domain.CustomerRef
	Notes       string
}

// SettleResult carries the committed transaction and both updated balances.
type SettleResult struct {
	Transaction *domain.Transaction
	BalanceIn   decimal.Decimal
	BalanceOut  decimal.Decimal
}

// Settle executes one exchange settlement.
func (uc *SettlementUseCase) Settle(ctx context.Context, input SettleInput) (*SettleResult, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	// Customer resolution is a distinct concern: it completes, or fails the
	// whole request, before the settlement unit begins.
	customer, err := uc.resolveCustomer(ctx, input.CustomerRef)
	if err != nil {
		return nil, err
	}

	drawerID, err := uc.shifts.ActiveDrawer(ctx, input.Operator.ID)
	if err != nil {
		return nil, err
	}

	drawer, err := uc.drawerRepo.GetByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}

	if !drawer.Active {
		return nil, domain.ErrDrawerInactive
	}

	marketRate := input.AppliedRate
	if input.MarketRate != nil {
		marketRate = *input.MarketRate
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		DrawerID:    drawerID,
		CurrencyIn:  input.CurrencyIn,
		CurrencyOut: input.CurrencyOut,
		AmountIn:    input.AmountIn,
		AmountOut:   input.AmountOut,
		AppliedRate: input.AppliedRate,
		MarketRate:  marketRate,
		Profit:      domain.ComputeProfit(input.AppliedRate, marketRate, input.AmountIn),
		Notes:       input.Notes,
		PerformedBy: input.Operator.ID,
		CreatedAt:   now,
	}

	if customer != nil {
		txn.CustomerID = &customer.ID
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both balance rows in ascending currency order so that two
	// concurrent opposite-direction settlements on the same pair cannot
	// deadlock.
	currencies := []string{input.CurrencyIn, input.CurrencyOut}
	sort.Strings(currencies)

	balances, err := uc.balanceRepo.LockForUpdate(ctx, tx, drawerID, currencies)
	if err != nil {
		return nil, err
	}

	balanceIn := balances[input.CurrencyIn]
	balanceOut := balances[input.CurrencyOut]

	if err := balanceOut.ValidateDebit(input.AmountOut); err != nil {
		return nil, err
	}

	// The evaluator's verdict is recorded on the transaction; settlement
	// proceeds even when the configured action is "block".
	result, err := uc.compliance.Evaluate(ctx, txn, customer)
	if err != nil {
		return nil, err
	}

	txn.ComplianceFlag = result.Flagged
	txn.ComplianceReason = result.Reason

	if result.Flagged {
		uc.logger.Warn().
			Str("transaction_id", txn.ID).
			Str("reason", result.Reason).
			Str("action", string(result.Action)).
			Msg("settlement flagged by compliance")
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	newOut := balanceOut.ApplyDebit(input.AmountOut)
	if err := uc.applyLeg(ctx, tx, balanceOut, newOut, domain.EntryTypeTransactionOut, input.AmountOut, txn, now); err != nil {
		return nil, err
	}

	newIn := balanceIn.ApplyCredit(input.AmountIn)
	if err := uc.applyLeg(ctx, tx, balanceIn, newIn, domain.EntryTypeTransactionIn, input.AmountIn, txn, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.notify(ctx, txn)

	return &SettleResult{
		Transaction: txn,
		BalanceIn:   newIn,
		BalanceOut:  newOut,
	}, nil
}

func (uc *SettlementUseCase) validateInput(input SettleInput) error {
	if err := domain.ValidateCurrency(input.CurrencyIn); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(input.CurrencyOut); err != nil {
		return err
	}

	if input.CurrencyIn == input.CurrencyOut {
		return domain.ErrSameCurrency
	}

	if err := domain.ValidateAmount(input.AmountIn); err != nil {
		return err
	}

	if err := domain.ValidateAmount(input.AmountOut); err != nil {
		return err
	}

	if input.AppliedRate.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidRate
	}

	if input.MarketRate != nil && input.MarketRate.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidRate
	}

	return nil
}

func (uc *SettlementUseCase) resolveCustomer(ctx context.Context, ref domain.CustomerRef) (*domain.Customer, error) {
	if ref.IsZero() {
		return nil, nil
	}

	return uc.customers.Resolve(ctx, ref)
}

func (uc *SettlementUseCase) applyLeg(
	ctx context.Context,
	tx Transaction,
	balance *domain.CurrencyBalance,
	newBalance decimal.Decimal,
	entryType domain.EntryType,
	amount decimal.Decimal,
	txn *domain.Transaction,
	now time.Time,
) error {
	err := uc.balanceRepo.UpdateBalance(ctx, tx, balance.DrawerID, balance.Currency, newBalance, txn.PerformedBy, now)
	if err != nil {
		return err
	}

	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		DrawerID:      balance.DrawerID,
		Currency:      balance.Currency,
		Type:          entryType,
		Amount:        amount,
		BalanceBefore: balance.Balance,
		BalanceAfter:  newBalance,
		ReferenceType: domain.ReferenceTypeTransaction,
		ReferenceID:   txn.ID,
		PerformedBy:   txn.PerformedBy,
		CreatedAt:     now,
	}

	return uc.ledgerRepo.Append(ctx, tx, entry)
}

// notify pushes the committed settlement to the broadcast sink together with
// the drawer's updated daily profit. Best effort: failures are logged and
// never surfaced to the caller.
func (uc *SettlementUseCase) notify(ctx context.Context, txn *domain.Transaction) {
	dailyProfit := decimal.Zero

	daily, err := uc.transactionRepo.DailyProfit(ctx, txn.DrawerID, txn.CreatedAt)
	if err != nil {
		uc.logger.Warn().Err(err).Str("drawer_id", txn.DrawerID).Msg("daily profit lookup failed for broadcast")
	} else if daily != nil {
		dailyProfit = daily.Profit
	}

	uc.broadcaster.Broadcast(domain.SettlementEvent{
		TransactionID: txn.ID,
		DrawerID:      txn.DrawerID,
		CurrencyIn:    txn.CurrencyIn,
		CurrencyOut:   txn.CurrencyOut,
		AmountIn:      txn.AmountIn.String(),
		AmountOut:     txn.AmountOut.String(),
		Profit:        txn.Profit.String(),
		DailyProfit:   dailyProfit.String(),
		Flagged:       txn.ComplianceFlag,
		PerformedBy:   txn.PerformedBy,
		CreatedAt:     txn.CreatedAt,
	})
}

// GetTransaction retrieves a settled transaction by id.
func (uc *SettlementUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListTransactionsByDrawer lists settled transactions for a drawer.
func (uc *SettlementUseCase) ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.transactionRepo.ListByDrawer(ctx, drawerID, limit, offset)
}

// DailyProfit returns the aggregate profit a drawer earned on the given day.
func (uc *SettlementUseCase) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	return uc.transactionRepo.DailyProfit(ctx, drawerID, day)
}
