package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry by the operation that produced it.
type EntryType string

const (
	EntryTypeDeposit        EntryType = "deposit"
	EntryTypeWithdrawal     EntryType = "withdrawal"
	EntryTypeAdjustment     EntryType = "adjustment"
	EntryTypeTransactionIn  EntryType = "transaction_in"
	EntryTypeTransactionOut EntryType = "transaction_out"
	EntryTypeReconciliation EntryType = "reconciliation"
)

var validEntryTypes = map[EntryType]bool{
	EntryTypeDeposit:        true,
	EntryTypeWithdrawal:     true,
	EntryTypeAdjustment:     true,
	EntryTypeTransactionIn:  true,
	EntryTypeTransactionOut: true,
	EntryTypeReconciliation: true,
}

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return validEntryTypes[t]
}

// Reference types linking an entry back to the record that caused it.
const (
	ReferenceTypeTransaction   = "transaction"
	ReferenceTypeManual        = "manual"
	ReferenceTypeClosingReport = "closing_report"
)

// LedgerEntry is the immutable record of one balance-affecting event.
// Entries are append-only; they are never updated or deleted, and every
// balance mutation produces exactly one entry in the same transaction.
type LedgerEntry struct {
	ID            string
	DrawerID      string
	Currency      string
	Type          EntryType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReferenceType string
	ReferenceID   string
	PerformedBy   string
	CreatedAt     time.Time
}

// SignedDelta returns the entry's effect on the balance: positive for
// credits, negative for debits. It is derived from before/after rather than
// the raw amount so that adjustments in either direction are covered.
func (e *LedgerEntry) SignedDelta() decimal.Decimal {
	return e.BalanceAfter.Sub(e.BalanceBefore)
}

// LedgerFilter narrows a ledger history query. Zero values mean "no filter".
type LedgerFilter struct {
	Currency string
	Type     EntryType
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
