package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Drawer represents a physical cash-holding unit tracked per operator or
// location. Drawers with ledger history are deactivated, never deleted.
type Drawer struct {
	ID                string
	Name              string
	Active            bool
	LowBalanceAlertAt decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CurrencyBalance is the current amount of one currency held in a drawer.
// Rows are created lazily on first credit and mutated only through the
// balance use case, always inside a locked transaction.
type CurrencyBalance struct {
	DrawerID      string
	Currency      string
	Balance       decimal.Decimal
	LastUpdatedBy string
	UpdatedAt     time.Time
}

// ValidateDebit checks whether the balance can be reduced by amount
// without going negative.
func (b *CurrencyBalance) ValidateDebit(amount decimal.Decimal) error {
	if amount.GreaterThan(b.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (b *CurrencyBalance) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return b.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (b *CurrencyBalance) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return b.Balance.Add(amount)
}

// LowBalanceAlert is a derived tuple emitted when a drawer's balance in some
// currency has fallen below the drawer's configured threshold. It carries no
// state of its own.
type LowBalanceAlert struct {
	DrawerID   string
	DrawerName string
	Currency   string
	Balance    decimal.Decimal
	Threshold  decimal.Decimal
}
