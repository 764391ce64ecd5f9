package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a recorded currency exchange: the customer hands over
// CurrencyIn and receives CurrencyOut from the drawer. Settlement moves both
// balances atomically; the transaction row is referenced by the two ledger
// entries it produces.
type Transaction struct {
	ID               string
	DrawerID         string
	CustomerID       *string
	CurrencyIn       string
	CurrencyOut      string
	AmountIn         decimal.Decimal
	AmountOut        decimal.Decimal
	AppliedRate      decimal.Decimal
	MarketRate       decimal.Decimal
	Profit           decimal.Decimal
	ComplianceFlag   bool
	ComplianceReason string
	Notes            string
	PerformedBy      string
	CreatedAt        time.Time
}

// Validate validates the exchange legs before settlement starts.
func (t *Transaction) Validate() error {
	if t.CurrencyIn == t.CurrencyOut {
		return ErrSameCurrency
	}

	if t.AmountIn.LessThanOrEqual(decimal.Zero) || t.AmountOut.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.AppliedRate.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidRate
	}

	return nil
}

// ComputeProfit derives the margin earned on the exchange:
// (appliedRate - marketRate) * amountIn. When no market rate was supplied
// it defaults to the applied rate and the profit is zero.
func ComputeProfit(appliedRate, marketRate, amountIn decimal.Decimal) decimal.Decimal {
	return appliedRate.Sub(marketRate).Mul(amountIn)
}

// ComplianceResult is what the external rule evaluator returns for a pending
// transaction. The flag and reason are recorded on the transaction; the
// action is recorded but not enforced by settlement.
type ComplianceResult struct {
	Flagged bool
	Reason  string
	Action  ComplianceAction
}

// ComplianceAction is the evaluator's configured consequence for a matched rule.
type ComplianceAction string

const (
	ComplianceActionNone   ComplianceAction = "none"
	ComplianceActionReview ComplianceAction = "review"
	ComplianceActionBlock  ComplianceAction = "block"
)

// DailyProfit is the aggregate profit recorded for one drawer on one day.
type DailyProfit struct {
	DrawerID string
	Date     time.Time
	Profit   decimal.Decimal
	Count    int64
}
