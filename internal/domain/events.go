package domain

import "time"

// Event channels published on the notification sink.
const (
	ChannelSettlements = "settlements"
)

// SettlementEvent is the payload broadcast after a settlement commits.
// Delivery is best effort; a dropped event never affects the settlement.
type SettlementEvent struct {
	TransactionID string    `json:"transaction_id"`
	DrawerID      string    `json:"drawer_id"`
	CurrencyIn    string    `json:"currency_in"`
	CurrencyOut   string    `json:"currency_out"`
	AmountIn      string    `json:"amount_in"`
	AmountOut     string    `json:"amount_out"`
	Profit        string    `json:"profit"`
	DailyProfit   string    `json:"daily_profit"`
	Flagged       bool      `json:"flagged"`
	PerformedBy   string    `json:"performed_by"`
	CreatedAt     time.Time `json:"created_at"`
}
