package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

func TestTransaction_Validate(t *testing.T) {
	valid := domain.Transaction{
		CurrencyIn:  "USD",
		CurrencyOut: "IQD",
		AmountIn:    decimal.NewFromInt(100),
		AmountOut:   decimal.NewFromInt(146000),
		AppliedRate: decimal.NewFromInt(1460),
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Transaction)
		wantErr error
	}{
		{
			name:   "valid exchange",
			mutate: func(*domain.Transaction) {},
		},
		{
			name:    "same currency on both legs",
			mutate:  func(tx *domain.Transaction) { tx.CurrencyOut = "USD" },
			wantErr: domain.ErrSameCurrency,
		},
		{
			name:    "zero incoming amount",
			mutate:  func(tx *domain.Transaction) { tx.AmountIn = decimal.Zero },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative outgoing amount",
			mutate:  func(tx *domain.Transaction) { tx.AmountOut = decimal.NewFromInt(-5) },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero rate",
			mutate:  func(tx *domain.Transaction) { tx.AppliedRate = decimal.Zero },
			wantErr: domain.ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)

			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestComputeProfit(t *testing.T) {
	tests := []struct {
		name       string
		applied    int64
		market     int64
		amountIn   int64
		wantProfit int64
	}{
		{name: "positive margin", applied: 1460, market: 1450, amountIn: 100, wantProfit: 1000},
		{name: "market defaults to applied", applied: 1460, market: 1460, amountIn: 100, wantProfit: 0},
		{name: "negative margin", applied: 1440, market: 1450, amountIn: 50, wantProfit: -500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeProfit(
				decimal.NewFromInt(tt.applied),
				decimal.NewFromInt(tt.market),
				decimal.NewFromInt(tt.amountIn),
			)
			if !got.Equal(decimal.NewFromInt(tt.wantProfit)) {
				t.Errorf("profit = %s, want %d", got, tt.wantProfit)
			}
		})
	}
}

func TestLedgerEntry_SignedDelta(t *testing.T) {
	debit := domain.LedgerEntry{
		Type:          domain.EntryTypeTransactionOut,
		Amount:        decimal.NewFromInt(100),
		BalanceBefore: decimal.NewFromInt(1000),
		BalanceAfter:  decimal.NewFromInt(900),
	}
	if !debit.SignedDelta().Equal(decimal.NewFromInt(-100)) {
		t.Errorf("debit delta = %s, want -100", debit.SignedDelta())
	}

	credit := domain.LedgerEntry{
		Type:          domain.EntryTypeTransactionIn,
		Amount:        decimal.NewFromInt(146000),
		BalanceBefore: decimal.Zero,
		BalanceAfter:  decimal.NewFromInt(146000),
	}
	if !credit.SignedDelta().Equal(decimal.NewFromInt(146000)) {
		t.Errorf("credit delta = %s, want 146000", credit.SignedDelta())
	}
}
