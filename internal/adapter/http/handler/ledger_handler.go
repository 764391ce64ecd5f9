package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	History(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	CheckConsistency(ctx context.Context) ([]*usecase.ConsistencyViolation, error)
	BalanceFromLedger(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
}

// LedgerHandler handles read-only ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// History lists a drawer's ledger entries, newest first.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	filter := domain.LedgerFilter{
		Currency: r.URL.Query().Get("currency"),
		Type:     domain.EntryType(r.URL.Query().Get("type")),
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp", err.Error())
			return
		}

		filter.From = &t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp", err.Error())
			return
		}

		filter.To = &t
	}

	entries, err := h.ledgerUC.History(r.Context(), drawerID, filter)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list ledger entries", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(entries))
}

// Consistency reports every balance row that disagrees with its ledger.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	violations, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consistent": len(violations) == 0,
		"violations": dto.ConsistencyViolationsFromUseCase(violations),
	})
}

// BalanceFromLedger recomputes one balance purely from ledger deltas.
func (h *LedgerHandler) BalanceFromLedger(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	currency := r.URL.Query().Get("currency")
	if drawerID == "" || currency == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID or currency", "")
		return
	}

	sum, err := h.ledgerUC.BalanceFromLedger(r.Context(), drawerID, currency)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to sum ledger", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"drawer_id": drawerID,
		"currency":  currency,
		"balance":   sum,
	})
}
