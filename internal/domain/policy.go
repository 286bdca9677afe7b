package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferPolicy evaluates the validation rules for outgoing transfers. All
// checks are pure: the caller supplies every figure the policy needs, so the
// policy never touches storage.
type TransferPolicy struct {
	DailyLimit decimal.Decimal
	// Location defines the calendar day used for the daily-limit window.
	Location *time.Location
}

// DefaultDailyLimit is the cap on total outgoing value per sender per
// calendar day.
var DefaultDailyLimit = decimal.NewFromInt(5000)

// NewTransferPolicy creates a policy with the given daily limit. A nil
// location defaults to UTC.
func NewTransferPolicy(dailyLimit decimal.Decimal, loc *time.Location) *TransferPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return &TransferPolicy{DailyLimit: dailyLimit, Location: loc}
}

// ValidateAmount fails when amount is not strictly positive.
func (p *TransferPolicy) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateSelfTransfer fails when sender and recipient are the same account.
func (p *TransferPolicy) ValidateSelfTransfer(senderID, recipientID string) error {
	if senderID == recipientID {
		return ErrSelfTransfer
	}
	return nil
}

// ValidateDailyLimit fails when sentToday + amount exceeds the daily limit.
func (p *TransferPolicy) ValidateDailyLimit(amount, sentToday decimal.Decimal) error {
	if sentToday.Add(amount).GreaterThan(p.DailyLimit) {
		return &DailyLimitError{
			Limit:     p.DailyLimit,
			SentToday: sentToday,
			Remaining: p.DailyLimit.Sub(sentToday),
		}
	}
	return nil
}

// ValidateSufficientBalance fails when the balance cannot cover the amount.
// Callers using an unlocked balance read must re-check under the row lock;
// the answer here can go stale the moment it is returned.
func (p *TransferPolicy) ValidateSufficientBalance(balance, amount decimal.Decimal) error {
	if balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// DayStart returns the start of the calendar day containing now in the
// policy's reference timezone, converted back to UTC for storage comparison.
func (p *TransferPolicy) DayStart(now time.Time) time.Time {
	local := now.In(p.Location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)
	return start.UTC()
}
