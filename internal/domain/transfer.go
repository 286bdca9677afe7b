package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRecord is an immutable ledger entry documenting one completed value
// movement. ID is assigned monotonically by storage; ExternalRef is a ULID
// assigned at creation and used for audit correlation.
type TransferRecord struct {
	ID                 int64
	ExternalRef        string
	SenderAccountID    string
	RecipientAccountID string
	Amount             decimal.Decimal
	CreatedAt          time.Time
}

// Validate validates the record before it is persisted.
func (t *TransferRecord) Validate() error {
	if t.SenderAccountID == t.RecipientAccountID {
		return ErrSelfTransfer
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
