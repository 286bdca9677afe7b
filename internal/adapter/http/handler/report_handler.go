package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// ReportHandler serves read-only aggregates over transfers and balances.
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC *usecase.ReportUseCase, ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, ledgerUC: ledgerUC, metrics: m}
}

// TotalTransferred returns the total transferred per sender.
func (h *ReportHandler) TotalTransferred(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reportUC.TotalsBySender(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.count("totals")
	writeJSON(w, http.StatusOK, dto.SenderTotalsFromUseCase(totals))
}

// AverageTransferred returns the mean transfer amount per sender.
func (h *ReportHandler) AverageTransferred(w http.ResponseWriter, r *http.Request) {
	averages, err := h.reportUC.AveragesBySender(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.count("averages")
	writeJSON(w, http.StatusOK, dto.SenderAveragesFromUseCase(averages))
}

// ExportBalancesCSV streams all users with balances as a CSV download.
func (h *ReportHandler) ExportBalancesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="user_balances.csv"`)
	w.Header().Set("Cache-Control", "no-cache")

	if err := h.reportUC.ExportBalancesCSV(r.Context(), w); err != nil {
		// Headers are already written; all we can do is log.
		log.Error().Err(err).Msg("csv export failed mid-stream")
		return
	}

	h.count("csv")
}

// Consistency returns the ledger-wide totals.
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		TotalBalance:     report.TotalBalance,
		TotalTransferred: report.TotalTransferred,
	})
}

func (h *ReportHandler) count(report string) {
	if h.metrics != nil {
		h.metrics.ReportsServed.WithLabelValues(report).Inc()
	}
}
