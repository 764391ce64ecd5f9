package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dlshad/drawerledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := metrics.New()
	mw := NewMetricsMiddleware(m)

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drawers/ABC123/ledger", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/drawers/:id/ledger", "418"))
	if count != 1 {
		t.Fatalf("expected 1 recorded request, got %v", count)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/drawers/01ABC", "/api/v1/drawers/:id"},
		{"/api/v1/drawers/01ABC/balances", "/api/v1/drawers/:id/balances"},
		{"/api/v1/settlements/01ABC", "/api/v1/settlements/:id"},
		{"/api/v1/closings/01ABC", "/api/v1/closings/:id"},
		{"/api/v1/drawers/", "/api/v1/drawers/"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
