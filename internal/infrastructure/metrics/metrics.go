package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus metrics.
type Metrics struct {
	TransfersExecuted prometheus.Counter
	TransferErrors    *prometheus.CounterVec
	TransferDuration  prometheus.Histogram
	TransferAmount    prometheus.Histogram

	UsersRegistered prometheus.Counter
	AuthFailures    prometheus.Counter

	ReportsServed *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		TransfersExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_transfers_executed_total",
			Help: "Total number of committed transfers",
		}),
		TransferErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfer_errors_total",
			Help: "Total number of rejected or failed transfers",
		}, []string{"kind"}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_transfer_duration_seconds",
			Help:    "Transfer execution duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_transfer_amount",
			Help:    "Distribution of transfer amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 2500, 5000},
		}),
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_users_registered_total",
			Help: "Total number of registered users",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_auth_failures_total",
			Help: "Total number of failed authentication attempts",
		}),
		ReportsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_reports_served_total",
			Help: "Total number of report requests served",
		}, []string{"report"}),
	}
}
