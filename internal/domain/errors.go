package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrSelfTransfer     = errors.New("cannot transfer to own account")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrTransferNotFound = errors.New("transfer not found")

	// Storage errors
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// DailyLimitError is returned when a transfer would push the sender over the
// daily outgoing limit. It carries the figures the caller needs to render
// actionable feedback.
type DailyLimitError struct {
	Limit     decimal.Decimal
	SentToday decimal.Decimal
	Remaining decimal.Decimal
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily transfer limit exceeded: limit=%s sent_today=%s remaining=%s",
		e.Limit, e.SentToday, e.Remaining)
}

// IsDailyLimitError reports whether err is a DailyLimitError and returns it.
func IsDailyLimitError(err error) (*DailyLimitError, bool) {
	var dle *DailyLimitError
	if errors.As(err, &dle) {
		return dle, true
	}
	return nil, false
}
