package handler

import (
	"context"
	"net/http"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
)

// AlertService defines the behavior needed by AlertHandler.
type AlertService interface {
	LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error)
}

// AlertHandler handles low-balance alert HTTP requests.
type AlertHandler struct {
	alertUC AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertUC AlertService) *AlertHandler {
	return &AlertHandler{alertUC: alertUC}
}

// LowBalance returns every (drawer, currency) currently below its threshold.
func (h *AlertHandler) LowBalance(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertUC.LowBalanceAlerts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LowBalanceAlertsFromDomain(alerts))
}
