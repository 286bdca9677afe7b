package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	ledgerRepo := mocks.NewMockLedgerRepository()
	ledgerRepo.TotalBalanceFunc = func(ctx context.Context) (decimal.Decimal, error) {
		return decimal.NewFromInt(10000), nil
	}
	ledgerRepo.TotalTransferredFunc = func(ctx context.Context) (decimal.Decimal, error) {
		return decimal.NewFromInt(3500), nil
	}

	uc := usecase.NewLedgerUseCase(ledgerRepo)

	report, err := uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.TotalBalance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected total balance 10000, got %s", report.TotalBalance)
	}
	if !report.TotalTransferred.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("expected total transferred 3500, got %s", report.TotalTransferred)
	}
}

func TestLedgerUseCase_CheckConsistency_Error(t *testing.T) {
	ledgerRepo := mocks.NewMockLedgerRepository()

	repoErr := errors.New("query failed")
	ledgerRepo.TotalBalanceFunc = func(ctx context.Context) (decimal.Decimal, error) {
		return decimal.Zero, repoErr
	}

	uc := usecase.NewLedgerUseCase(ledgerRepo)

	if _, err := uc.CheckConsistency(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("expected repository error, got %v", err)
	}
}
