package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// AccountResponse represents a wallet account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts a slice of domain accounts.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransferRecordResponse represents a ledger entry in API responses.
type TransferRecordResponse struct {
	ID                 int64           `json:"id"`
	ExternalRef        string          `json:"external_ref"`
	SenderAccountID    string          `json:"sender_account_id"`
	RecipientAccountID string          `json:"recipient_account_id"`
	Amount             decimal.Decimal `json:"amount"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TransferRecordFromDomain converts a domain record to a response.
func TransferRecordFromDomain(t *domain.TransferRecord) *TransferRecordResponse {
	return &TransferRecordResponse{
		ID:                 t.ID,
		ExternalRef:        t.ExternalRef,
		SenderAccountID:    t.SenderAccountID,
		RecipientAccountID: t.RecipientAccountID,
		Amount:             t.Amount,
		CreatedAt:          t.CreatedAt,
	}
}

// TransferRecordsFromDomain converts domain records to responses.
func TransferRecordsFromDomain(records []*domain.TransferRecord) []*TransferRecordResponse {
	result := make([]*TransferRecordResponse, len(records))
	for i, t := range records {
		result[i] = TransferRecordFromDomain(t)
	}
	return result
}

// TransferResultResponse is the success payload for an executed transfer.
type TransferResultResponse struct {
	Record        *TransferRecordResponse `json:"record"`
	BalanceBefore decimal.Decimal         `json:"balance_before"`
	BalanceAfter  decimal.Decimal         `json:"balance_after"`
}

// TransferResultFromUseCase converts a use case result to a response.
func TransferResultFromUseCase(r *usecase.TransferResult) *TransferResultResponse {
	return &TransferResultResponse{
		Record:        TransferRecordFromDomain(r.Record),
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
	}
}

// SenderTotalResponse represents one row of the totals report.
type SenderTotalResponse struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total_transferred"`
}

// SenderTotalsFromUseCase converts totals rows to responses.
func SenderTotalsFromUseCase(totals []*usecase.SenderTotal) []*SenderTotalResponse {
	result := make([]*SenderTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = &SenderTotalResponse{
			AccountID: t.AccountID,
			Name:      t.Name,
			Email:     t.Email,
			Total:     t.Total,
		}
	}
	return result
}

// SenderAverageResponse represents one row of the averages report.
type SenderAverageResponse struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Average   decimal.Decimal `json:"average_transferred"`
	Count     int64           `json:"transfer_count"`
}

// SenderAveragesFromUseCase converts averages rows to responses.
func SenderAveragesFromUseCase(averages []*usecase.SenderAverage) []*SenderAverageResponse {
	result := make([]*SenderAverageResponse, len(averages))
	for i, a := range averages {
		result[i] = &SenderAverageResponse{
			AccountID: a.AccountID,
			Name:      a.Name,
			Email:     a.Email,
			Average:   a.Average,
			Count:     a.Count,
		}
	}
	return result
}

// ConsistencyResponse represents the ledger consistency report.
type ConsistencyResponse struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalTransferred decimal.Decimal `json:"total_transferred"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message,omitempty"`
	Detail    any    `json:"detail,omitempty"`
}

// DailyLimitDetail is the detail payload for daily-limit rejections.
type DailyLimitDetail struct {
	Limit     decimal.Decimal `json:"limit"`
	SentToday decimal.Decimal `json:"sent_today"`
	Remaining decimal.Decimal `json:"remaining"`
}
