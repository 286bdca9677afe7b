package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.TransfersExecuted == nil || m.TransferErrors == nil || m.UsersRegistered == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestTransferErrorsByKind(t *testing.T) {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	m.TransferErrors.WithLabelValues("InsufficientFunds").Inc()
	m.TransferErrors.WithLabelValues("InsufficientFunds").Inc()
	m.TransferErrors.WithLabelValues("DailyLimitExceeded").Inc()

	if got := testutil.ToFloat64(m.TransferErrors.WithLabelValues("InsufficientFunds")); got != 2 {
		t.Fatalf("expected 2 insufficient-funds errors, got %v", got)
	}

	if got := testutil.ToFloat64(m.TransferErrors.WithLabelValues("DailyLimitExceeded")); got != 1 {
		t.Fatalf("expected 1 daily-limit error, got %v", got)
	}
}
