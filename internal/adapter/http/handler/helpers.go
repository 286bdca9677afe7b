package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given kind and message.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		ErrorKind: kind,
		Message:   message,
	})
}

// writeDomainError maps a domain error to its caller-visible kind, status and
// detail. Unexpected errors are logged and reported generically so storage
// internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	if dle, ok := domain.IsDailyLimitError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			ErrorKind: "DailyLimitExceeded",
			Message:   "daily transfer limit exceeded",
			Detail: dto.DailyLimitDetail{
				Limit:     dle.Limit,
				SentToday: dle.SentToday,
				Remaining: dle.Remaining,
			},
		})

		return
	}

	kind, status := classifyDomainError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("unexpected error handling request")
		writeError(w, status, kind, "internal server error")

		return
	}

	writeError(w, status, kind, err.Error())
}

func classifyDomainError(err error) (string, int) {
	if _, ok := domain.IsDailyLimitError(err); ok {
		return "DailyLimitExceeded", http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return "InvalidAmount", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSelfTransfer):
		return "SelfTransferNotAllowed", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "InsufficientFunds", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRecipientNotFound):
		return "RecipientNotFound", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccountNotFound):
		return "AccountNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrTransferNotFound):
		return "TransferNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return "UserNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		return "EmailTaken", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrPasswordTooWeak):
		return "ValidationFailed", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserInactive):
		return "Unauthorized", http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return "Unauthorized", http.StatusUnauthorized
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "ConcurrencyConflict", http.StatusConflict
	default:
		return "PersistenceFailure", http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
