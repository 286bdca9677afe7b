package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// AccountRepository defines data access for wallet accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByIDForUpdate acquires a FOR UPDATE row lock on the account for the
	// duration of tx. This is the serialization point for debits.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// AdjustBalance applies balance = balance + delta atomically in storage.
	// Safe without a row lock for credits; the non-negative check constraint
	// still backstops debits.
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// ForEach streams every account in id order; used by CSV export.
	ForEach(ctx context.Context, fn func(*domain.Account) error) error
}

// TransferRepository defines data access for transfer records.
type TransferRepository interface {
	// Create persists the record and fills in its storage-assigned ID.
	Create(ctx context.Context, tx Transaction, record *domain.TransferRecord) error
	GetByExternalRef(ctx context.Context, externalRef string) (*domain.TransferRecord, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error)
	// SumSentSince returns the total amount sent by an account since the
	// given instant. Used for the daily-limit window.
	SumSentSince(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error)
	TotalsBySender(ctx context.Context) ([]*SenderTotal, error)
	AveragesBySender(ctx context.Context) ([]*SenderAverage, error)
}

// UserRepository defines data access for identities.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// LedgerRepository defines ledger-wide read operations.
type LedgerRepository interface {
	// TotalBalance returns the sum of all account balances.
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	// TotalTransferred returns the sum of all transfer record amounts.
	TotalTransferred(ctx context.Context) (decimal.Decimal, error)
}

// SenderTotal aggregates outgoing volume per sender.
type SenderTotal struct {
	AccountID string
	Name      string
	Email     string
	Total     decimal.Decimal
}

// SenderAverage aggregates the mean outgoing amount per sender.
type SenderAverage struct {
	AccountID string
	Name      string
	Email     string
	Average   decimal.Decimal
	Count     int64
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically claims key with value if it does not exist.
	// Returns (exists, existingValue, error); exactly one of two concurrent
	// callers claims, the other sees exists=true.
	CheckAndSet(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, []byte, error)
	// Update overwrites an existing key with the final value.
	Update(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Retrier re-runs an operation that failed on a transient storage conflict,
// surfacing exhaustion as domain.ErrConcurrencyConflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
