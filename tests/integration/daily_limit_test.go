package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func TestDailyLimitIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	transferUC := newTransferUseCase(testDB)

	t.Run("rejects transfer that would exceed the daily cap", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		sender := testDB.CreateTestAccount(ctx, "Alice", "alice@example.com", decimal.NewFromInt(10000))
		recipient := testDB.CreateTestAccount(ctx, "Bob", "bob@example.com", decimal.Zero)

		mustTransfer(t, transferUC, ctx, sender.ID, recipient.Email, decimal.NewFromInt(4900))

		_, err := transferUC.Execute(ctx, usecase.ExecuteTransferInput{
			SenderID:       sender.ID,
			RecipientEmail: recipient.Email,
			Amount:         decimal.NewFromInt(200),
		})

		var limitErr *domain.DailyLimitError
		if !errors.As(err, &limitErr) {
			t.Fatalf("expected DailyLimitError, got %v", err)
		}

		if !limitErr.SentToday.Equal(decimal.NewFromInt(4900)) {
			t.Errorf("expected sent today 4900, got %s", limitErr.SentToday)
		}

		if !limitErr.Remaining.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected remaining 100, got %s", limitErr.Remaining)
		}
	})

	t.Run("allows spending exactly up to the cap", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		sender := testDB.CreateTestAccount(ctx, "Alice", "alice@example.com", decimal.NewFromInt(10000))
		recipient := testDB.CreateTestAccount(ctx, "Bob", "bob@example.com", decimal.Zero)

		mustTransfer(t, transferUC, ctx, sender.ID, recipient.Email, decimal.NewFromInt(4900))
		mustTransfer(t, transferUC, ctx, sender.ID, recipient.Email, decimal.NewFromInt(100))

		sent, err := transferUC.SentToday(ctx, sender.ID)
		if err != nil {
			t.Fatalf("failed to get sent today: %v", err)
		}

		if !sent.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected sent today 5000, got %s", sent)
		}

		_, err = transferUC.Execute(ctx, usecase.ExecuteTransferInput{
			SenderID:       sender.ID,
			RecipientEmail: recipient.Email,
			Amount:         decimal.RequireFromString("0.01"),
		})

		var limitErr *domain.DailyLimitError
		if !errors.As(err, &limitErr) {
			t.Fatalf("expected DailyLimitError, got %v", err)
		}

		if !limitErr.Remaining.Equal(decimal.Zero) {
			t.Errorf("expected remaining 0, got %s", limitErr.Remaining)
		}
	})

	t.Run("previous days do not count toward the cap", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		sender := testDB.CreateTestAccount(ctx, "Alice", "alice@example.com", decimal.NewFromInt(10000))
		recipient := testDB.CreateTestAccount(ctx, "Bob", "bob@example.com", decimal.Zero)

		// Yesterday's spending was at the cap; today starts fresh.
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		testDB.CreateTestTransfer(ctx, sender.ID, recipient.ID, decimal.NewFromInt(5000), yesterday)

		result := mustTransfer(t, transferUC, ctx, sender.ID, recipient.Email, decimal.NewFromInt(5000))

		if !result.Record.Amount.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected amount 5000, got %s", result.Record.Amount)
		}
	})

	t.Run("received transfers do not count toward the cap", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		sender := testDB.CreateTestAccount(ctx, "Alice", "alice@example.com", decimal.NewFromInt(10000))
		recipient := testDB.CreateTestAccount(ctx, "Bob", "bob@example.com", decimal.NewFromInt(10000))

		// Bob sends Alice 4000; Alice's own cap is untouched.
		mustTransfer(t, transferUC, ctx, recipient.ID, sender.Email, decimal.NewFromInt(4000))

		sent, err := transferUC.SentToday(ctx, sender.ID)
		if err != nil {
			t.Fatalf("failed to get sent today: %v", err)
		}

		if !sent.Equal(decimal.Zero) {
			t.Errorf("expected sent today 0, got %s", sent)
		}

		mustTransfer(t, transferUC, ctx, sender.ID, recipient.Email, decimal.NewFromInt(5000))
	})
}
