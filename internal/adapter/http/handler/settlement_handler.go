package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	Settle(ctx context.Context, input usecase.SettleInput) (*usecase.SettleResult, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error)
	DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error)
}

// SettlementHandler handles exchange-settlement HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Settle executes one exchange settlement on the operator's open drawer.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.Settle(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to settle exchange", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.SettleFromResult(result))
}

// Get retrieves a settled transaction by ID.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.settlementUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByDrawer lists settled transactions for a drawer.
func (h *SettlementHandler) ListByDrawer(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	transactions, err := h.settlementUC.ListTransactionsByDrawer(r.Context(), drawerID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

// DailyProfit returns the aggregate profit a drawer earned on one day.
func (h *SettlementHandler) DailyProfit(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	day, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	profit, err := h.settlementUC.DailyProfit(r.Context(), drawerID, day)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get daily profit", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DailyProfitFromDomain(profit))
}
