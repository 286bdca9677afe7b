package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerUseCase exposes ledger-wide consistency reads.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport summarises the ledger-wide totals. Transfers conserve
// value, so TotalBalance only moves when users register with an initial
// balance or are deleted.
type ConsistencyReport struct {
	TotalBalance     decimal.Decimal
	TotalTransferred decimal.Decimal
}

// CheckConsistency returns the current ledger totals.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, err := uc.ledgerRepo.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}

	totalTransferred, err := uc.ledgerRepo.TotalTransferred(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		TotalBalance:     totalBalance,
		TotalTransferred: totalTransferred,
	}, nil
}
