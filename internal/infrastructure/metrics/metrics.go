package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsCompleted prometheus.Counter
	SettlementsFlagged   prometheus.Counter
	SettlementDuration   prometheus.Histogram
	SettlementErrors     *prometheus.CounterVec
	SettlementProfit     prometheus.Histogram

	// Balance metrics
	BalanceMovements *prometheus.CounterVec
	DrawerBalance    *prometheus.GaugeVec

	// Closing metrics
	ClosingsSubmitted    prometheus.Counter
	ClosingsWithVariance prometheus.Counter

	// Alert metrics
	LowBalanceAlerts prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge

	// Broadcast metrics
	EventsBroadcast prometheus.Counter
	EventsDropped   prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Settlement metrics
		SettlementsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_settlements_completed_total",
			Help: "Total number of settled exchange transactions",
		}),
		SettlementsFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_settlements_flagged_total",
			Help: "Total number of settlements flagged by compliance",
		}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "drawerledger_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawerledger_settlement_errors_total",
				Help: "Total number of settlement errors by type",
			},
			[]string{"error_type"},
		),
		SettlementProfit: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "drawerledger_settlement_profit",
			Help:    "Profit recorded per settlement",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),

		// Balance metrics
		BalanceMovements: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawerledger_balance_movements_total",
				Help: "Total balance movements by entry type",
			},
			[]string{"entry_type"},
		),
		DrawerBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "drawerledger_drawer_balance",
				Help: "Current drawer balance",
			},
			[]string{"drawer_id", "currency"},
		),

		// Closing metrics
		ClosingsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_closings_submitted_total",
			Help: "Total number of closing reports submitted",
		}),
		ClosingsWithVariance: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_closings_with_variance_total",
			Help: "Total number of closings submitted with a count variance",
		}),

		// Alert metrics
		LowBalanceAlerts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drawerledger_low_balance_alerts",
			Help: "Number of drawer balances currently below threshold",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawerledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drawerledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drawerledger_db_connections",
			Help: "Current number of database connections",
		}),

		// Broadcast metrics
		EventsBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_events_broadcast_total",
			Help: "Total settlement events published",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawerledger_events_dropped_total",
			Help: "Total settlement events dropped because the buffer was full",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawerledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawerledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
