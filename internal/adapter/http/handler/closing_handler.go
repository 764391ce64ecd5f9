package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// ClosingService defines the behavior needed by ClosingHandler.
type ClosingService interface {
	Snapshot(ctx context.Context, drawerID string) (*domain.ClosingSession, error)
	SubmitClosing(ctx context.Context, input usecase.SubmitClosingInput) (*domain.ClosingReport, error)
	GetClosing(ctx context.Context, id string) (*domain.ClosingReport, error)
	ListClosings(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error)
}

// ClosingHandler handles drawer-closing HTTP requests.
type ClosingHandler struct {
	closingUC ClosingService
}

// NewClosingHandler creates a new ClosingHandler.
func NewClosingHandler(closingUC ClosingService) *ClosingHandler {
	return &ClosingHandler{closingUC: closingUC}
}

// Snapshot starts a closing attempt: expected balances plus the time of the
// last submitted closing. Read-only.
func (h *ClosingHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	session, err := h.closingUC.Snapshot(r.Context(), drawerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to snapshot drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClosingSnapshotFromDomain(session))
}

// Submit walks a fresh closing through count and verify and persists the
// report.
func (h *ClosingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.SubmitClosingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.closingUC.SubmitClosing(r.Context(), req.ToUseCaseInput(drawerID, actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to submit closing", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ClosingReportFromDomain(report))
}

// Get retrieves one closing report by ID.
func (h *ClosingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing closing ID", "")
		return
	}

	report, err := h.closingUC.GetClosing(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get closing", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClosingReportFromDomain(report))
}

// ListByDrawer lists a drawer's closing history, most recent first.
func (h *ClosingHandler) ListByDrawer(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	reports, err := h.closingUC.ListClosings(r.Context(), drawerID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list closings", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClosingReportsFromDomain(reports))
}
