package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransferPolicy_ValidateAmount(t *testing.T) {
	p := NewTransferPolicy(DefaultDailyLimit, nil)

	if err := p.ValidateAmount(decimal.NewFromFloat(0.01)); err != nil {
		t.Errorf("unexpected error for positive amount: %v", err)
	}

	if err := p.ValidateAmount(decimal.Zero); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := p.ValidateAmount(decimal.NewFromInt(-10)); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestTransferPolicy_ValidateSelfTransfer(t *testing.T) {
	p := NewTransferPolicy(DefaultDailyLimit, nil)

	if err := p.ValidateSelfTransfer("acc-1", "acc-2"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := p.ValidateSelfTransfer("acc-1", "acc-1"); err != ErrSelfTransfer {
		t.Errorf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferPolicy_ValidateDailyLimit(t *testing.T) {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		sentToday   decimal.Decimal
		expectError bool
		remaining   decimal.Decimal
	}{
		{
			name:        "well under limit",
			amount:      decimal.NewFromInt(100),
			sentToday:   decimal.Zero,
			expectError: false,
		},
		{
			name:        "exactly at limit",
			amount:      decimal.NewFromInt(100),
			sentToday:   decimal.NewFromInt(4900),
			expectError: false,
		},
		{
			name:        "single transfer of the full limit",
			amount:      decimal.NewFromInt(5000),
			sentToday:   decimal.Zero,
			expectError: false,
		},
		{
			name:        "one cent over",
			amount:      decimal.NewFromFloat(100.01),
			sentToday:   decimal.NewFromInt(4900),
			expectError: true,
			remaining:   decimal.NewFromInt(100),
		},
		{
			name:        "large transfer against spent day",
			amount:      decimal.NewFromInt(200),
			sentToday:   decimal.NewFromInt(4900),
			expectError: true,
			remaining:   decimal.NewFromInt(100),
		},
		{
			name:        "limit already exhausted",
			amount:      decimal.NewFromFloat(0.01),
			sentToday:   decimal.NewFromInt(5000),
			expectError: true,
			remaining:   decimal.Zero,
		},
	}

	p := NewTransferPolicy(DefaultDailyLimit, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.ValidateDailyLimit(tt.amount, tt.sentToday)

			if !tt.expectError {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			dle, ok := IsDailyLimitError(err)
			if !ok {
				t.Fatalf("expected DailyLimitError, got %v", err)
			}

			if !dle.Limit.Equal(DefaultDailyLimit) {
				t.Errorf("expected limit %s, got %s", DefaultDailyLimit, dle.Limit)
			}

			if !dle.SentToday.Equal(tt.sentToday) {
				t.Errorf("expected sent_today %s, got %s", tt.sentToday, dle.SentToday)
			}

			if !dle.Remaining.Equal(tt.remaining) {
				t.Errorf("expected remaining %s, got %s", tt.remaining, dle.Remaining)
			}
		})
	}
}

func TestTransferPolicy_ValidateSufficientBalance(t *testing.T) {
	p := NewTransferPolicy(DefaultDailyLimit, nil)

	if err := p.ValidateSufficientBalance(decimal.NewFromInt(100), decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error for exact balance: %v", err)
	}

	err := p.ValidateSufficientBalance(decimal.NewFromInt(100), decimal.NewFromFloat(100.01))
	if err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestTransferPolicy_DayStart(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	tests := []struct {
		name     string
		loc      *time.Location
		now      time.Time
		expected time.Time
	}{
		{
			name:     "utc midday",
			loc:      time.UTC,
			now:      time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local day started before utc day",
			loc:  kyiv,
			// 23:30 UTC on the 14th is already the 15th in Kyiv (UTC+2).
			now:      time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTransferPolicy(DefaultDailyLimit, tt.loc)

			got := p.DayStart(tt.now)
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}

			if got.Location() != time.UTC {
				t.Errorf("expected UTC result, got %s", got.Location())
			}
		})
	}
}
