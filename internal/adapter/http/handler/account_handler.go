package handler

import (
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountHandler serves wallet account reads.
type AccountHandler struct {
	userUC     *usecase.UserUseCase
	transferUC *usecase.TransferUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(userUC *usecase.UserUseCase, transferUC *usecase.TransferUseCase) *AccountHandler {
	return &AccountHandler{userUC: userUC, transferUC: transferUC}
}

// Balance returns the authenticated user's wallet balance together with the
// amount already sent today.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}

	account, err := h.userUC.GetAccount(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sentToday, err := h.transferUC.SentToday(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account":    dto.AccountFromDomain(account),
		"sent_today": sentToday,
	})
}

// List returns a page of wallet accounts so senders can discover recipients.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.userUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}
