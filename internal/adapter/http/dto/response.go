package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// DrawerResponse represents a drawer in API responses.
type DrawerResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Active            bool            `json:"active"`
	LowBalanceAlertAt decimal.Decimal `json:"low_balance_alert_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DrawerFromDomain converts a domain drawer to a response.
func DrawerFromDomain(d *domain.Drawer) *DrawerResponse {
	return &DrawerResponse{
		ID:                d.ID,
		Name:              d.Name,
		Active:            d.Active,
		LowBalanceAlertAt: d.LowBalanceAlertAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// DrawersFromDomain converts domain drawers to responses.
func DrawersFromDomain(drawers []*domain.Drawer) []*DrawerResponse {
	result := make([]*DrawerResponse, len(drawers))
	for i, d := range drawers {
		result[i] = DrawerFromDomain(d)
	}
	return result
}

// BalanceResponse represents one (drawer, currency) balance.
type BalanceResponse struct {
	DrawerID      string          `json:"drawer_id"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	LastUpdatedBy string          `json:"last_updated_by,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.CurrencyBalance) *BalanceResponse {
	return &BalanceResponse{
		DrawerID:      b.DrawerID,
		Currency:      b.Currency,
		Balance:       b.Balance,
		LastUpdatedBy: b.LastUpdatedBy,
		UpdatedAt:     b.UpdatedAt,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.CurrencyBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// AdjustResponse carries the adjusted balance and the signed ledger delta.
type AdjustResponse struct {
	Balance *BalanceResponse `json:"balance"`
	Delta   decimal.Decimal  `json:"delta"`
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	DrawerID      string          `json:"drawer_id"`
	Currency      string          `json:"currency"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	PerformedBy   string          `json:"performed_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerEntryFromDomain converts a domain ledger entry to a response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            e.ID,
		DrawerID:      e.DrawerID,
		Currency:      e.Currency,
		Type:          string(e.Type),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		PerformedBy:   e.PerformedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// LedgerEntriesFromDomain converts domain ledger entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// TransactionResponse represents a settled exchange in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	DrawerID         string          `json:"drawer_id"`
	CustomerID       *string         `json:"customer_id,omitempty"`
	CurrencyIn       string          `json:"currency_in"`
	CurrencyOut      string          `json:"currency_out"`
	AmountIn         decimal.Decimal `json:"amount_in"`
	AmountOut        decimal.Decimal `json:"amount_out"`
	AppliedRate      decimal.Decimal `json:"applied_rate"`
	MarketRate       decimal.Decimal `json:"market_rate"`
	Profit           decimal.Decimal `json:"profit"`
	ComplianceFlag   bool            `json:"compliance_flag"`
	ComplianceReason string          `json:"compliance_reason,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	PerformedBy      string          `json:"performed_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		DrawerID:         t.DrawerID,
		CustomerID:       t.CustomerID,
		CurrencyIn:       t.CurrencyIn,
		CurrencyOut:      t.CurrencyOut,
		AmountIn:         t.AmountIn,
		AmountOut:        t.AmountOut,
		AppliedRate:      t.AppliedRate,
		MarketRate:       t.MarketRate,
		Profit:           t.Profit,
		ComplianceFlag:   t.ComplianceFlag,
		ComplianceReason: t.ComplianceReason,
		Notes:            t.Notes,
		PerformedBy:      t.PerformedBy,
		CreatedAt:        t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// SettleResponse carries the committed transaction and both updated balances.
type SettleResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	BalanceIn   decimal.Decimal      `json:"balance_in"`
	BalanceOut  decimal.Decimal      `json:"balance_out"`
}

// SettleFromResult converts a settlement result to a response.
func SettleFromResult(r *usecase.SettleResult) *SettleResponse {
	return &SettleResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		BalanceIn:   r.BalanceIn,
		BalanceOut:  r.BalanceOut,
	}
}

// ClosingEntryResponse is one per-currency line of a closing report.
type ClosingEntryResponse struct {
	Currency string          `json:"currency"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
}

// ClosingReportResponse represents a closing report in API responses.
type ClosingReportResponse struct {
	ID          string                 `json:"id"`
	DrawerID    string                 `json:"drawer_id"`
	Date        time.Time              `json:"date"`
	GeneratedBy string                 `json:"generated_by"`
	Entries     []ClosingEntryResponse `json:"entries"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ClosingReportFromDomain converts a domain closing report to a response.
func ClosingReportFromDomain(r *domain.ClosingReport) *ClosingReportResponse {
	entries := make([]ClosingEntryResponse, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = ClosingEntryResponse{
			Currency: e.Currency,
			Expected: e.Expected,
			Actual:   e.Actual,
			Variance: e.Variance,
		}
	}

	return &ClosingReportResponse{
		ID:          r.ID,
		DrawerID:    r.DrawerID,
		Date:        r.Date,
		GeneratedBy: r.GeneratedBy,
		Entries:     entries,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}

// ClosingReportsFromDomain converts domain closing reports to responses.
func ClosingReportsFromDomain(reports []*domain.ClosingReport) []*ClosingReportResponse {
	result := make([]*ClosingReportResponse, len(reports))
	for i, r := range reports {
		result[i] = ClosingReportFromDomain(r)
	}
	return result
}

// ClosingSnapshotResponse is the read-only overview step of a closing.
type ClosingSnapshotResponse struct {
	DrawerID    string                     `json:"drawer_id"`
	Step        string                     `json:"step"`
	Expected    map[string]decimal.Decimal `json:"expected"`
	LastClosing *time.Time                 `json:"last_closing,omitempty"`
	StartedAt   time.Time                  `json:"started_at"`
}

// ClosingSnapshotFromDomain converts a closing session to a response.
func ClosingSnapshotFromDomain(s *domain.ClosingSession) *ClosingSnapshotResponse {
	return &ClosingSnapshotResponse{
		DrawerID:    s.DrawerID,
		Step:        string(s.Step),
		Expected:    s.Expected,
		LastClosing: s.LastClosing,
		StartedAt:   s.StartedAt,
	}
}

// LowBalanceAlertResponse represents one low-balance alert.
type LowBalanceAlertResponse struct {
	DrawerID   string          `json:"drawer_id"`
	DrawerName string          `json:"drawer_name"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	Threshold  decimal.Decimal `json:"threshold"`
}

// LowBalanceAlertsFromDomain converts domain alerts to responses.
func LowBalanceAlertsFromDomain(alerts []*domain.LowBalanceAlert) []*LowBalanceAlertResponse {
	result := make([]*LowBalanceAlertResponse, len(alerts))
	for i, a := range alerts {
		result[i] = &LowBalanceAlertResponse{
			DrawerID:   a.DrawerID,
			DrawerName: a.DrawerName,
			Currency:   a.Currency,
			Balance:    a.Balance,
			Threshold:  a.Threshold,
		}
	}
	return result
}

// ConsistencyViolationResponse is one balance row that disagrees with its
// ledger.
type ConsistencyViolationResponse struct {
	DrawerID  string          `json:"drawer_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	LedgerSum decimal.Decimal `json:"ledger_sum"`
}

// ConsistencyViolationsFromUseCase converts consistency violations to
// responses.
func ConsistencyViolationsFromUseCase(violations []*usecase.ConsistencyViolation) []*ConsistencyViolationResponse {
	result := make([]*ConsistencyViolationResponse, len(violations))
	for i, v := range violations {
		result[i] = &ConsistencyViolationResponse{
			DrawerID:  v.DrawerID,
			Currency:  v.Currency,
			Balance:   v.Balance,
			LedgerSum: v.LedgerSum,
		}
	}
	return result
}

// DailyProfitResponse is the aggregate profit for one drawer and day.
type DailyProfitResponse struct {
	DrawerID string          `json:"drawer_id"`
	Date     time.Time       `json:"date"`
	Profit   decimal.Decimal `json:"profit"`
	Count    int64           `json:"count"`
}

// DailyProfitFromDomain converts a domain daily profit to a response.
func DailyProfitFromDomain(p *domain.DailyProfit) *DailyProfitResponse {
	return &DailyProfitResponse{
		DrawerID: p.DrawerID,
		Date:     p.Date,
		Profit:   p.Profit,
		Count:    p.Count,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
