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

// DrawerService defines the behavior needed by DrawerHandler.
type DrawerService interface {
	CreateDrawer(ctx context.Context, input usecase.CreateDrawerInput) (*domain.Drawer, error)
	GetDrawer(ctx context.Context, id string) (*domain.Drawer, error)
	ListDrawers(ctx context.Context, limit, offset int) ([]*domain.Drawer, error)
	SetThreshold(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error)
	SetActive(ctx context.Context, id string, active bool, actor domain.Actor) error
	OpenDrawer(ctx context.Context, drawerID string, operator domain.Actor) error
	ReleaseDrawer(ctx context.Context, operator domain.Actor) error
	ActiveDrawer(ctx context.Context, operator domain.Actor) (*domain.Drawer, error)
}

// DrawerHandler handles drawer administration and shift assignment.
type DrawerHandler struct {
	drawerUC DrawerService
}

// NewDrawerHandler creates a new DrawerHandler.
func NewDrawerHandler(drawerUC DrawerService) *DrawerHandler {
	return &DrawerHandler{drawerUC: drawerUC}
}

// Create creates a new drawer. Administrator only.
func (h *DrawerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateDrawerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	drawer, err := h.drawerUC.CreateDrawer(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.DrawerFromDomain(drawer))
}

// Get retrieves a drawer by ID.
func (h *DrawerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	drawer, err := h.drawerUC.GetDrawer(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DrawerFromDomain(drawer))
}

// List lists drawers.
func (h *DrawerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	drawers, err := h.drawerUC.ListDrawers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list drawers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DrawersFromDomain(drawers))
}

// SetThreshold updates a drawer's low-balance alert threshold.
func (h *DrawerHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.SetThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	drawer, err := h.drawerUC.SetThreshold(r.Context(), id, req.Threshold, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to set threshold", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DrawerFromDomain(drawer))
}

// SetActive activates or deactivates a drawer.
func (h *DrawerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.drawerUC.SetActive(r.Context(), id, req.Active, actor); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

// Open claims the drawer as the operator's active drawer.
func (h *DrawerHandler) Open(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	if err := h.drawerUC.OpenDrawer(r.Context(), id, actor); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to open drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"drawer_id": id, "operator_id": actor.ID})
}

// Release clears the operator's active drawer.
func (h *DrawerHandler) Release(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.drawerUC.ReleaseDrawer(r.Context(), actor); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to release drawer", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Active returns the operator's currently open drawer.
func (h *DrawerHandler) Active(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	drawer, err := h.drawerUC.ActiveDrawer(r.Context(), actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get active drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DrawerFromDomain(drawer))
}
