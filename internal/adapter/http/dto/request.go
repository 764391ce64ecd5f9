package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// CustomerRefRequest identifies the customer in a settlement: an existing id,
// or a phone (plus optional name) to look up or create by.
type CustomerRefRequest struct {
	ID    string `json:"id,omitempty"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SettleRequest represents a request to settle one currency exchange.
type SettleRequest struct {
	CurrencyIn  string              `json:"currency_in"`
	CurrencyOut string              `json:"currency_out"`
	AmountIn    decimal.Decimal     `json:"amount_in"`
	AmountOut   decimal.Decimal     `json:"amount_out"`
	AppliedRate decimal.Decimal     `json:"applied_rate"`
	MarketRate  *decimal.Decimal    `json:"market_rate,omitempty"`
	Customer    *CustomerRefRequest `json:"customer,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SettleRequest) ToUseCaseInput(operator domain.Actor) usecase.SettleInput {
	input := usecase.SettleInput{
		Operator:    operator,
		CurrencyIn:  r.CurrencyIn,
		CurrencyOut: r.CurrencyOut,
		AmountIn:    r.AmountIn,
		AmountOut:   r.AmountOut,
		AppliedRate: r.AppliedRate,
		MarketRate:  r.MarketRate,
		Notes:       r.Notes,
	}

	if r.Customer != nil {
		input.CustomerRef = domain.CustomerRef{
			ID:    r.Customer.ID,
			Phone: r.Customer.Phone,
			Name:  r.Customer.Name,
		}
	}

	return input
}

// MoveRequest represents a deposit or withdrawal on one drawer balance.
type MoveRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *MoveRequest) ToUseCaseInput(drawerID string, actor domain.Actor) usecase.MoveInput {
	return usecase.MoveInput{
		DrawerID: drawerID,
		Currency: r.Currency,
		Amount:   r.Amount,
		Notes:    r.Notes,
		Actor:    actor,
	}
}

// AdjustRequest represents a request to set an absolute balance.
type AdjustRequest struct {
	Currency        string          `json:"currency"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Reason          string          `json:"reason"`
	ClosingReportID string          `json:"closing_report_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustRequest) ToUseCaseInput(drawerID string, actor domain.Actor) usecase.AdjustInput {
	return usecase.AdjustInput{
		DrawerID:        drawerID,
		Currency:        r.Currency,
		NewBalance:      r.NewBalance,
		Reason:          r.Reason,
		ClosingReportID: r.ClosingReportID,
		Actor:           actor,
	}
}

// SubmitClosingRequest carries the operator's physical counts for one closing.
type SubmitClosingRequest struct {
	Counts map[string]decimal.Decimal `json:"counts"`
	Notes  string                     `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitClosingRequest) ToUseCaseInput(drawerID string, actor domain.Actor) usecase.SubmitClosingInput {
	return usecase.SubmitClosingInput{
		DrawerID: drawerID,
		Counts:   r.Counts,
		Notes:    r.Notes,
		Actor:    actor,
	}
}

// CreateDrawerRequest represents a request to create a drawer.
type CreateDrawerRequest struct {
	Name              string          `json:"name"`
	LowBalanceAlertAt decimal.Decimal `json:"low_balance_alert_at"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDrawerRequest) ToUseCaseInput(actor domain.Actor) usecase.CreateDrawerInput {
	return usecase.CreateDrawerInput{
		Name:              r.Name,
		LowBalanceAlertAt: r.LowBalanceAlertAt,
		Actor:             actor,
	}
}

// SetThresholdRequest updates a drawer's low-balance alert threshold.
type SetThresholdRequest struct {
	Threshold decimal.Decimal `json:"threshold"`
}

// SetActiveRequest activates or deactivates a drawer.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
