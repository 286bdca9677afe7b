package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create persists the record and fills in the storage-assigned ID.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error {
	query := `
		INSERT INTO transfers (external_ref, sender_account_id, recipient_account_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return querier(tx, r.pool).QueryRow(ctx, query,
		record.ExternalRef,
		record.SenderAccountID,
		record.RecipientAccountID,
		decimalToNumeric(record.Amount),
		timeToPgTimestamptz(record.CreatedAt),
	).Scan(&record.ID)
}

// GetByExternalRef retrieves a transfer record by external reference.
func (r *TransferRepository) GetByExternalRef(ctx context.Context, externalRef string) (*domain.TransferRecord, error) {
	query := `
		SELECT id, external_ref, sender_account_id, recipient_account_id, amount, created_at
		FROM transfers
		WHERE external_ref = $1
	`

	record, err := scanTransferRow(r.pool.QueryRow(ctx, query, externalRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return record, nil
}

// ListByAccount lists transfer records where the account is sender or
// recipient, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error) {
	query := `
		SELECT id, external_ref, sender_account_id, recipient_account_id, amount, created_at
		FROM transfers
		WHERE sender_account_id = $1 OR recipient_account_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TransferRecord
	for rows.Next() {
		record, err := scanTransferRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// SumSentSince returns the total amount sent by an account since the given
// instant.
func (r *TransferRepository) SumSentSince(ctx context.Context, senderID string, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transfers
		WHERE sender_account_id = $1 AND created_at >= $2
	`

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, senderID, timeToPgTimestamptz(since)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// TotalsBySender returns the total transferred per sender, largest first.
func (r *TransferRepository) TotalsBySender(ctx context.Context) ([]*usecase.SenderTotal, error) {
	query := `
		SELECT t.sender_account_id, u.name, u.email, SUM(t.amount) AS total
		FROM transfers t
		JOIN users u ON u.id = t.sender_account_id
		GROUP BY t.sender_account_id, u.name, u.email
		ORDER BY total DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*usecase.SenderTotal
	for rows.Next() {
		var (
			st    usecase.SenderTotal
			total pgtype.Numeric
		)

		if err := rows.Scan(&st.AccountID, &st.Name, &st.Email, &total); err != nil {
			return nil, err
		}

		st.Total = numericToDecimal(total)
		totals = append(totals, &st)
	}

	return totals, rows.Err()
}

// AveragesBySender returns the mean transfer amount and count per sender,
// highest mean first. Averages are rounded to two decimal places.
func (r *TransferRepository) AveragesBySender(ctx context.Context) ([]*usecase.SenderAverage, error) {
	query := `
		SELECT t.sender_account_id, u.name, u.email, ROUND(AVG(t.amount), 2) AS average, COUNT(*) AS sends
		FROM transfers t
		JOIN users u ON u.id = t.sender_account_id
		GROUP BY t.sender_account_id, u.name, u.email
		ORDER BY average DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var averages []*usecase.SenderAverage
	for rows.Next() {
		var (
			sa  usecase.SenderAverage
			avg pgtype.Numeric
		)

		if err := rows.Scan(&sa.AccountID, &sa.Name, &sa.Email, &avg, &sa.Count); err != nil {
			return nil, err
		}

		sa.Average = numericToDecimal(avg)
		averages = append(averages, &sa)
	}

	return averages, rows.Err()
}

func scanTransferRow(row pgx.Row) (*domain.TransferRecord, error) {
	var (
		record    domain.TransferRecord
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&record.ID, &record.ExternalRef, &record.SenderAccountID, &record.RecipientAccountID, &amount, &createdAt)
	if err != nil {
		return nil, err
	}

	record.Amount = numericToDecimal(amount)
	record.CreatedAt = createdAt.Time

	return &record, nil
}
