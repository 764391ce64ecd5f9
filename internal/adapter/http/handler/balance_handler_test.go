package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

type balanceServiceStub struct {
	getFn      func(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	listFn     func(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error)
	depositFn  func(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	withdrawFn func(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	adjustFn   func(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error)
}

func (s *balanceServiceStub) GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	return s.getFn(ctx, drawerID, currency)
}

func (s *balanceServiceStub) ListBalances(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
	return s.listFn(ctx, drawerID)
}

func (s *balanceServiceStub) Deposit(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	return s.depositFn(ctx, input)
}

func (s *balanceServiceStub) Withdraw(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
	return s.withdrawFn(ctx, input)
}

func (s *balanceServiceStub) Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error) {
	return s.adjustFn(ctx, input)
}

func TestBalanceHandler_Deposit_Success(t *testing.T) {
	operator := domain.Actor{ID: "op-1", Role: domain.RoleOperator}

	var captured usecase.MoveInput
	handler := NewBalanceHandler(&balanceServiceStub{
		depositFn: func(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
			captured = input
			return &domain.CurrencyBalance{
				DrawerID: input.DrawerID,
				Currency: input.Currency,
				Balance:  decimal.NewFromInt(600),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.MoveRequest{Currency: "USD", Amount: decimal.NewFromInt(100)})
	req := httptest.NewRequest(http.MethodPost, "/drawers/drawer-1/deposits", bytes.NewReader(body))
	req = withActor(req, operator)
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.DrawerID != "drawer-1" || captured.Currency != "USD" || captured.Actor != operator {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected balance 600, got %s", resp.Balance)
	}
}

func TestBalanceHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.MoveRequest{Currency: "USD", Amount: decimal.NewFromInt(100)})
	req := httptest.NewRequest(http.MethodPost, "/drawers/drawer-1/withdrawals", bytes.NewReader(body))
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBalanceHandler_Adjust_Success(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	handler := NewBalanceHandler(&balanceServiceStub{
		adjustFn: func(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error) {
			if input.Reason != "recount after audit" {
				t.Fatalf("expected reason to propagate, got %q", input.Reason)
			}
			return &usecase.AdjustResult{
				Balance: &domain.CurrencyBalance{
					DrawerID: input.DrawerID,
					Currency: input.Currency,
					Balance:  input.NewBalance,
				},
				Delta: decimal.NewFromInt(-25),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.AdjustRequest{
		Currency:   "USD",
		NewBalance: decimal.NewFromInt(75),
		Reason:     "recount after audit",
	})
	req := httptest.NewRequest(http.MethodPost, "/drawers/drawer-1/adjustments", bytes.NewReader(body))
	req = withActor(req, admin)
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.Adjust(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AdjustResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Delta.Equal(decimal.NewFromInt(-25)) {
		t.Fatalf("expected delta -25, got %s", resp.Delta)
	}
}

func TestBalanceHandler_Adjust_Unauthorized(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		adjustFn: func(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error) {
			return nil, domain.ErrUnauthorized
		},
	})

	body, _ := json.Marshal(dto.AdjustRequest{
		Currency:   "USD",
		NewBalance: decimal.NewFromInt(75),
		Reason:     "recount after audit",
	})
	req := httptest.NewRequest(http.MethodPost, "/drawers/drawer-1/adjustments", bytes.NewReader(body))
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.Adjust(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestBalanceHandler_List(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		listFn: func(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
			return []*domain.CurrencyBalance{
				{DrawerID: drawerID, Currency: "USD", Balance: decimal.NewFromInt(100)},
				{DrawerID: drawerID, Currency: "EUR", Balance: decimal.NewFromInt(50)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/drawers/drawer-1/balances", nil)
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(resp))
	}
}
