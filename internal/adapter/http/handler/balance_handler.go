package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	ListBalances(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error)
	Deposit(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	Withdraw(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error)
	Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.AdjustResult, error)
}

// BalanceHandler handles balance-movement HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// List lists all currency balances held by a drawer.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	balances, err := h.balanceUC.ListBalances(r.Context(), drawerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Get returns one currency balance, zero when never credited.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	currency := chi.URLParam(r, "currency")
	if drawerID == "" || currency == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID or currency", "")
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), drawerID, currency)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"drawer_id": drawerID,
		"currency":  currency,
		"balance":   balance,
	})
}

// Deposit credits cash into a drawer balance.
func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.balanceUC.Deposit, "failed to deposit")
}

// Withdraw debits cash from a drawer balance.
func (h *BalanceHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.balanceUC.Withdraw, "failed to withdraw")
}

func (h *BalanceHandler) move(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.MoveInput) (*domain.CurrencyBalance, error),
	failMsg string,
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	balance, err := op(r.Context(), req.ToUseCaseInput(drawerID, actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, failMsg, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// Adjust sets one balance to an absolute value. Administrator only.
func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.balanceUC.Adjust(r.Context(), req.ToUseCaseInput(drawerID, actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to adjust balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustResponse{
		Balance: dto.BalanceFromDomain(result.Balance),
		Delta:   result.Delta,
	})
}
