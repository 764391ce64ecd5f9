package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/adapter/http/middleware"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

type settlementServiceStub struct {
	settleFn func(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error)
	profitFn func(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error)
}

func (s *settlementServiceStub) Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
	return s.settleFn(ctx, input)
}

func (s *settlementServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *settlementServiceStub) ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	return s.listFn(ctx, drawerID, limit, offset)
}

func (s *settlementServiceStub) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	return s.profitFn(ctx, drawerID, day)
}

func withActor(r *http.Request, actor domain.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ActorContextKey, actor))
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestSettlementHandler_Settle_Success(t *testing.T) {
	operator := domain.Actor{ID: "op-1", Role: domain.RoleOperator}

	var captured usecase.SettleInput
	handler := NewSettlementHandler(&settlementServiceStub{
		settleFn: func(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
			captured = input
			return &usecase.SettleResult{
				Transaction: &domain.Transaction{ID: "txn-1", DrawerID: "drawer-1"},
				BalanceIn:   decimal.NewFromInt(1100),
				BalanceOut:  decimal.NewFromInt(52000),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.SettleRequest{
		CurrencyIn:  "USD",
		CurrencyOut: "IQD",
		AmountIn:    decimal.NewFromInt(100),
		AmountOut:   decimal.NewFromInt(148000),
		AppliedRate: decimal.RequireFromString("1485"),
	})

	req := httptest.NewRequest(http.MethodPost, "/settlements", bytes.NewReader(body))
	req = withActor(req, operator)
	rec := httptest.NewRecorder()

	handler.Settle(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Operator != operator || captured.CurrencyIn != "USD" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.SettleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Transaction.ID != "txn-1" {
		t.Fatalf("expected transaction txn-1, got %s", resp.Transaction.ID)
	}
}

func TestSettlementHandler_Settle_NoActor(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		settleFn: func(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
			t.Fatal("Settle should not be called without an actor")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/settlements", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Settle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSettlementHandler_Settle_InvalidJSON(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		settleFn: func(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
			t.Fatal("Settle should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/settlements", bytes.NewBufferString("{invalid json"))
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	rec := httptest.NewRecorder()

	handler.Settle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSettlementHandler_Settle_InsufficientFunds(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		settleFn: func(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.SettleRequest{
		CurrencyIn:  "USD",
		CurrencyOut: "IQD",
		AmountIn:    decimal.NewFromInt(100),
		AmountOut:   decimal.NewFromInt(148000),
		AppliedRate: decimal.RequireFromString("1485"),
	})

	req := httptest.NewRequest(http.MethodPost, "/settlements", bytes.NewReader(body))
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	rec := httptest.NewRecorder()

	handler.Settle(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSettlementHandler_Get_NotFound(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/settlements/txn-1", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSettlementHandler_DailyProfit(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		profitFn: func(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
			if drawerID != "drawer-1" {
				t.Fatalf("expected drawer-1, got %s", drawerID)
			}
			if day.Year() != 2026 || day.Month() != 8 || day.Day() != 20 {
				t.Fatalf("unexpected day: %v", day)
			}
			return &domain.DailyProfit{
				DrawerID: drawerID,
				Date:     day,
				Profit:   decimal.NewFromInt(1200),
				Count:    4,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/drawers/drawer-1/profit/daily?date=2026-08-20", nil)
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.DailyProfit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DailyProfitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 4 {
		t.Fatalf("expected 4 transactions, got %d", resp.Count)
	}
}
