package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosingStep is one of the four states of a drawer-closing attempt.
// Transitions are linear and forward-only; a submitted closing cannot be
// reopened.
type ClosingStep string

const (
	ClosingStepOverview  ClosingStep = "overview"
	ClosingStepCount     ClosingStep = "count"
	ClosingStepVerify    ClosingStep = "verify"
	ClosingStepSubmitted ClosingStep = "submitted"
)

var closingStepOrder = map[ClosingStep]int{
	ClosingStepOverview:  0,
	ClosingStepCount:     1,
	ClosingStepVerify:    2,
	ClosingStepSubmitted: 3,
}

// ClosingSession tracks one in-flight closing attempt for a drawer. The
// Overview, Count and Verify steps are read-only and hold no locks; only
// Submit writes anything, and what it writes is the ClosingReport alone.
type ClosingSession struct {
	DrawerID    string
	Step        ClosingStep
	Expected    map[string]decimal.Decimal
	Actual      map[string]decimal.Decimal
	LastClosing *time.Time
	StartedAt   time.Time
}

// NewClosingSession starts a closing attempt at the Overview step with the
// drawer's ledger-derived expected balances.
func NewClosingSession(drawerID string, expected map[string]decimal.Decimal, lastClosing *time.Time, now time.Time) *ClosingSession {
	return &ClosingSession{
		DrawerID:    drawerID,
		Step:        ClosingStepOverview,
		Expected:    expected,
		Actual:      make(map[string]decimal.Decimal),
		LastClosing: lastClosing,
		StartedAt:   now,
	}
}

// Advance moves the session to the next step. Only single forward steps are
// allowed; anything else, including touching a submitted session, fails.
func (s *ClosingSession) Advance(to ClosingStep) error {
	if s.Step == ClosingStepSubmitted {
		return ErrClosingSubmitted
	}

	cur, ok := closingStepOrder[s.Step]
	next, ok2 := closingStepOrder[to]
	if !ok || !ok2 || next != cur+1 {
		return ErrInvalidClosingStep
	}

	s.Step = to

	return nil
}

// RecordCount stores the operator's physical count for one currency and
// moves the session into the Count step if it is still at Overview.
func (s *ClosingSession) RecordCount(currency string, amount decimal.Decimal) error {
	if s.Step == ClosingStepSubmitted {
		return ErrClosingSubmitted
	}

	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	if s.Step == ClosingStepOverview {
		if err := s.Advance(ClosingStepCount); err != nil {
			return err
		}
	}

	s.Actual[currency] = amount

	return nil
}

// Variances computes actual - expected per currency. Currencies the operator
// did not count default to an actual of zero.
func (s *ClosingSession) Variances() []ClosingEntry {
	currencies := make(map[string]bool, len(s.Expected)+len(s.Actual))
	for c := range s.Expected {
		currencies[c] = true
	}
	for c := range s.Actual {
		currencies[c] = true
	}

	entries := make([]ClosingEntry, 0, len(currencies))
	for c := range currencies {
		expected := s.Expected[c]
		actual := s.Actual[c]
		entries = append(entries, ClosingEntry{
			Currency: c,
			Expected: expected,
			Actual:   actual,
			Variance: actual.Sub(expected),
		})
	}

	return entries
}

// HasVariance reports whether any currency's count differs from the ledger.
// A variance only warns; it never blocks submission.
func (s *ClosingSession) HasVariance() bool {
	for _, e := range s.Variances() {
		if !e.Variance.IsZero() {
			return true
		}
	}

	return false
}

// ClosingEntry is the per-currency tuple persisted in a closing report.
type ClosingEntry struct {
	Currency string
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
}

// ClosingReport is the permanent record of one reconciliation attempt.
// It is created once on submission and never modified; balances are not
// altered by closing, so the ledger remains the sole source of expected
// truth.
type ClosingReport struct {
	ID          string
	DrawerID    string
	Date        time.Time
	GeneratedBy string
	Entries     []ClosingEntry
	Notes       string
	CreatedAt   time.Time
}
