package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// TransferUseCase orchestrates the atomic debit/credit protocol: policy
// checks, sender row lock, balance adjustments and the ledger record all
// commit together or not at all.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	policy       *domain.TransferPolicy
	idGen        IDGenerator
	retrier      Retrier
	reportCache  Cache
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	policy *domain.TransferPolicy,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		policy:       policy,
		idGen:        idGen,
	}
}

// WithRetrier re-runs the transactional section on deadlock or serialization
// failures. Each attempt opens a fresh transaction.
func (uc *TransferUseCase) WithRetrier(retrier Retrier) *TransferUseCase {
	uc.retrier = retrier
	return uc
}

// WithReportCache drops the cached sender aggregates after each committed
// transfer so reports never serve stale totals for the cache TTL.
func (uc *TransferUseCase) WithReportCache(cache Cache) *TransferUseCase {
	uc.reportCache = cache
	return uc
}

// ExecuteTransferInput represents input for executing a transfer. SenderID
// comes from the authenticated identity, never from the request body.
type ExecuteTransferInput struct {
	SenderID       string
	RecipientEmail string
	Amount         decimal.Decimal
}

// TransferResult is returned on a committed transfer.
type TransferResult struct {
	Record        *domain.TransferRecord
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Execute moves Amount from the sender to the account registered under
// RecipientEmail.
//
// Validation order: cheap lock-free rejects first (amount, recipient lookup,
// self-transfer), then the unlocked daily-limit and balance fast-fails, then
// the authoritative balance re-check under the sender's FOR UPDATE lock. The
// recipient credit is an atomic in-storage adjustment, so the sender lock is
// the only lock a transfer acquires and no lock-ordering cycle can form.
func (uc *TransferUseCase) Execute(ctx context.Context, input ExecuteTransferInput) (*TransferResult, error) {
	if err := uc.policy.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateTransferAmount(input.Amount); err != nil {
		return nil, err
	}

	recipient, err := uc.accountRepo.GetByEmail(ctx, input.RecipientEmail)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrRecipientNotFound
		}

		return nil, err
	}

	if err := uc.policy.ValidateSelfTransfer(input.SenderID, recipient.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	sentToday, err := uc.transferRepo.SumSentSince(ctx, input.SenderID, uc.policy.DayStart(now))
	if err != nil {
		return nil, err
	}

	if err := uc.policy.ValidateDailyLimit(input.Amount, sentToday); err != nil {
		return nil, err
	}

	// Fast-fail on the unlocked balance. Not authoritative: the balance can
	// change before the lock below is acquired.
	sender, err := uc.accountRepo.GetByID(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}

	if err := uc.policy.ValidateSufficientBalance(sender.Balance, input.Amount); err != nil {
		return nil, err
	}

	var result *TransferResult

	run := func() error {
		res, err := uc.executeTransaction(ctx, input, recipient.ID, now)
		if err != nil {
			return err
		}

		result = res

		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	uc.invalidateReportCache(ctx)

	return result, nil
}

// executeTransaction runs the locked debit/credit/record protocol in a
// single transaction. Retry-safe: every call begins a fresh transaction.
func (uc *TransferUseCase) executeTransaction(ctx context.Context, input ExecuteTransferInput, recipientID string, now time.Time) (*TransferResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Sole serialization point: two concurrent transfers from the same
	// sender cannot both observe a sufficient pre-decrement balance.
	lockedSender, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.SenderID)
	if err != nil {
		return nil, err
	}

	if err := lockedSender.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	balanceBefore := lockedSender.Balance
	balanceAfter := lockedSender.ApplyDebit(input.Amount)

	err = uc.accountRepo.UpdateBalance(ctx, tx, lockedSender.ID, balanceAfter, now)
	if err != nil {
		return nil, err
	}

	err = uc.accountRepo.AdjustBalance(ctx, tx, recipientID, input.Amount, now)
	if err != nil {
		return nil, err
	}

	record := &domain.TransferRecord{
		ExternalRef:        uc.idGen.Generate(),
		SenderAccountID:    lockedSender.ID,
		RecipientAccountID: recipientID,
		Amount:             input.Amount,
		CreatedAt:          now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferResult{
		Record:        record,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}, nil
}

// invalidateReportCache is best effort: a failed delete leaves the stale
// aggregate to age out within reportCacheTTL.
func (uc *TransferUseCase) invalidateReportCache(ctx context.Context) {
	if uc.reportCache == nil {
		return
	}

	uc.reportCache.Delete(ctx, reportTotalsCacheKey)
	uc.reportCache.Delete(ctx, reportAveragesCacheKey)
}

// GetTransfer retrieves a transfer record by external reference.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, externalRef string) (*domain.TransferRecord, error) {
	return uc.transferRepo.GetByExternalRef(ctx, externalRef)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfer records involving an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.TransferRecord, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// SentToday returns the total amount the sender has transferred out during
// the current calendar day in the policy's reference timezone.
func (uc *TransferUseCase) SentToday(ctx context.Context, senderID string) (decimal.Decimal, error) {
	return uc.transferRepo.SumSentSince(ctx, senderID, uc.policy.DayStart(time.Now().UTC()))
}
