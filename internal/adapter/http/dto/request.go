package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:           r.Name,
		Email:          r.Email,
		Password:       r.Password,
		InitialBalance: r.InitialBalance,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update. Absent fields stay
// unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input for the given user.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		ID:       userID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// TransferRequest represents a request to execute a transfer. The sender is
// always the authenticated caller, never part of the body.
type TransferRequest struct {
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the authenticated sender.
func (r *TransferRequest) ToUseCaseInput(senderID string) usecase.ExecuteTransferInput {
	return usecase.ExecuteTransferInput{
		SenderID:       senderID,
		RecipientEmail: r.RecipientEmail,
		Amount:         r.Amount,
	}
}
