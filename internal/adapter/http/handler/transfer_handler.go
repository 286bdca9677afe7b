package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create executes a transfer from the authenticated account.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "invalid request body")
		return
	}

	start := time.Now()

	result, err := h.transferUC.Execute(r.Context(), req.ToUseCaseInput(identity.UserID))
	if err != nil {
		h.recordError(err)
		writeDomainError(w, err)

		return
	}

	if h.metrics != nil {
		h.metrics.TransfersExecuted.Inc()
		h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		h.metrics.TransferAmount.Observe(result.Record.Amount.InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.TransferResultFromUseCase(result))
}

// Get retrieves a transfer record by external reference.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	externalRef := chi.URLParam(r, "ref")
	if externalRef == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "missing transfer reference")
		return
	}

	record, err := h.transferUC.GetTransfer(r.Context(), externalRef)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferRecordFromDomain(record))
}

// ListMine lists transfer records involving the authenticated account.
func (h *TransferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}

	records, err := h.transferUC.ListTransfersByAccount(r.Context(), usecase.ListTransfersByAccountInput{
		AccountID: identity.UserID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferRecordsFromDomain(records))
}

func (h *TransferHandler) recordError(err error) {
	if h.metrics == nil {
		return
	}

	kind, _ := classifyDomainError(err)
	h.metrics.TransferErrors.WithLabelValues(kind).Inc()
}
