package compliance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// ThresholdEvaluator implements usecase.ComplianceEvaluator with a single
// amount-based rule. It stands in for an external rule engine; whatever it
// returns is recorded on the transaction, never enforced.
type ThresholdEvaluator struct {
	threshold decimal.Decimal
}

// NewThresholdEvaluator creates an evaluator flagging incoming amounts at or
// above threshold. A zero threshold disables flagging.
func NewThresholdEvaluator(threshold decimal.Decimal) *ThresholdEvaluator {
	return &ThresholdEvaluator{threshold: threshold}
}

// Evaluate checks the pending transaction against the amount rule. An
// anonymous customer above the threshold escalates the action from review to
// block, since reporting rules require an identified counterparty there.
func (e *ThresholdEvaluator) Evaluate(ctx context.Context, txn *domain.Transaction, customer *domain.Customer) (domain.ComplianceResult, error) {
	if !e.threshold.IsPositive() || txn.AmountIn.LessThan(e.threshold) {
		return domain.ComplianceResult{Action: domain.ComplianceActionNone}, nil
	}

	result := domain.ComplianceResult{
		Flagged: true,
		Reason:  fmt.Sprintf("amount %s %s at or above reporting threshold %s", txn.AmountIn, txn.CurrencyIn, e.threshold),
		Action:  domain.ComplianceActionReview,
	}

	if customer == nil {
		result.Action = domain.ComplianceActionBlock
		result.Reason += "; no customer identified"
	}

	return result, nil
}
