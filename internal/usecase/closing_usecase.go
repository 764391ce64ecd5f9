package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// ClosingUseCase drives the drawer-closing workflow. Overview, Count and
// Verify are read-only and hold no locks; the only write is the final
// closing report, and no currency balance is touched by any step.
type ClosingUseCase struct {
	balanceRepo BalanceRepository
	drawerRepo  DrawerRepository
	closingRepo ClosingRepository
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewClosingUseCase creates a new ClosingUseCase.
func NewClosingUseCase(
	balanceRepo BalanceRepository,
	drawerRepo DrawerRepository,
	closingRepo ClosingRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ClosingUseCase {
	return &ClosingUseCase{
		balanceRepo: balanceRepo,
		drawerRepo:  drawerRepo,
		closingRepo: closingRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// Snapshot starts a closing attempt at the Overview step: the drawer's
// current balances become the expected amounts, alongside the time of the
// last submitted closing.
func (uc *ClosingUseCase) Snapshot(ctx context.Context, drawerID string) (*domain.ClosingSession, error) {
	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	balances, err := uc.balanceRepo.ListByDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}

	expected := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		expected[b.Currency] = b.Balance
	}

	var lastClosing *time.Time

	last, err := uc.closingRepo.LastForDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}

	if last != nil {
		lastClosing = &last.CreatedAt
	}

	return domain.NewClosingSession(drawerID, expected, lastClosing, time.Now().UTC()), nil
}

// SubmitClosingInput carries the operator's physical counts for one closing
// attempt. Currencies present in the drawer but absent from Counts default
// to an actual of zero.
type SubmitClosingInput struct {
	DrawerID string
	Counts   map[string]decimal.Decimal
	Notes    string
	Actor    domain.Actor
}

// SubmitClosing walks a fresh session through Count and Verify and persists
// the report. A variance produces a warning but never blocks submission.
func (uc *ClosingUseCase) SubmitClosing(ctx context.Context, input SubmitClosingInput) (*domain.ClosingReport, error) {
	session, err := uc.Snapshot(ctx, input.DrawerID)
	if err != nil {
		return nil, err
	}

	for currency, amount := range input.Counts {
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, err
		}

		if err := session.RecordCount(currency, amount); err != nil {
			return nil, err
		}
	}

	// A count of nothing is still a count: an empty drawer closes with
	// all-zero actuals.
	if session.Step == domain.ClosingStepOverview {
		if err := session.Advance(domain.ClosingStepCount); err != nil {
			return nil, err
		}
	}

	if err := session.Advance(domain.ClosingStepVerify); err != nil {
		return nil, err
	}

	entries := session.Variances()

	if session.HasVariance() {
		uc.logger.Warn().
			Str("drawer_id", input.DrawerID).
			Str("generated_by", input.Actor.ID).
			Msg("closing submitted with variance between count and ledger")
	}

	if err := session.Advance(domain.ClosingStepSubmitted); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	report := &domain.ClosingReport{
		ID:          uc.idGen.Generate(),
		DrawerID:    input.DrawerID,
		Date:        now.Truncate(24 * time.Hour),
		GeneratedBy: input.Actor.ID,
		Entries:     entries,
		Notes:       input.Notes,
		CreatedAt:   now,
	}

	if err := uc.closingRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// GetClosing retrieves one closing report.
func (uc *ClosingUseCase) GetClosing(ctx context.Context, id string) (*domain.ClosingReport, error) {
	return uc.closingRepo.GetByID(ctx, id)
}

// ListClosings lists a drawer's closing history, most recent first.
func (uc *ClosingUseCase) ListClosings(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	return uc.closingRepo.ListByDrawer(ctx, drawerID, limit, offset)
}
