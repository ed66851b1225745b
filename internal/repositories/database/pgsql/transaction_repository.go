package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/utils/mapping"
	"github.com/finch-money/finch/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, account_id, plaid_txn_id, amount, posted, name, date, original_date,
	plaid_merchant_name, payment_channel, plaid_category_id, payment_meta, location_meta, active, subscription_id,
	created_at, last_updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.PlaidTxnID,
		&m.Amount,
		&m.Posted,
		&m.Name,
		&m.Date,
		&m.OriginalDate,
		&m.PlaidMerchantName,
		&m.PaymentChannel,
		&m.PlaidCategoryID,
		&m.PaymentMeta,
		&m.LocationMeta,
		&m.Active,
		&m.SubscriptionID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

func (r *PgxTransactionRepository) CountTransactionsByAccountID(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *PgxTransactionRepository) FindTransactionsInWindow(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND original_date >= $2 AND original_date <= $3
		ORDER BY original_date, created_at;
	`
	return r.queryTransactions(ctx, query, accountID, start, end)
}

func (r *PgxTransactionRepository) FindTransactionsSince(ctx context.Context, accountID string, since time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND original_date >= $2
		ORDER BY original_date, created_at;
	`
	return r.queryTransactions(ctx, query, accountID, since)
}

func (r *PgxTransactionRepository) ListTransactionsByAccounts(ctx context.Context, accountIDs []string, start, end time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = ANY($1) AND active
		  AND original_date >= $2 AND original_date <= $3
	`
	args := []any{accountIDs, start, end}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` AND (original_date, created_at) < ($4, $5)`
		args = append(args, tokenDate, tokenCreatedAt)
	}

	query += fmt.Sprintf(` ORDER BY original_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to detect another page

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.OriginalDate, last.CreatedAt)
		newToken = &token
	}

	return txns, newToken, nil
}

func (r *PgxTransactionRepository) FindNextUnreviewed(ctx context.Context, accountID string, after *domain.Transaction) (*domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.account_id, t.plaid_txn_id, t.amount, t.posted, t.name, t.date, t.original_date,
			t.plaid_merchant_name, t.payment_channel, t.plaid_category_id, t.payment_meta, t.location_meta, t.active, t.subscription_id,
			t.created_at, t.last_updated_at
		FROM transactions t
		LEFT JOIN transaction_reviews r ON r.transaction_id = t.transaction_id
		WHERE t.account_id = $1 AND t.active
		  AND (r.review_id IS NULL OR r.last_updated_at < t.last_updated_at)
	`
	args := []any{accountID}
	if after != nil {
		query += ` AND (t.original_date, t.created_at) > ($2, $3)`
		args = append(args, after.OriginalDate, after.CreatedAt)
	}
	query += ` ORDER BY t.original_date, t.created_at LIMIT 1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find next unreviewed transaction: %w", err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ApplySyncChanges persists one reconciliation pass atomically. Inserts,
// full-row updates, new subscriptions, subscription links and the account
// sync window all go through a single transaction so a failure leaves the
// ledger exactly as it was.
func (r *PgxTransactionRepository) ApplySyncChanges(ctx context.Context, cs domain.SyncChangeSet) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	batch := &pgx.Batch{}

	insertQuery := `
        INSERT INTO transactions (` + transactionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
    `
	for _, txn := range cs.Added {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(insertQuery,
			m.TransactionID, m.AccountID, m.PlaidTxnID, m.Amount, m.Posted, m.Name, m.Date, m.OriginalDate,
			m.PlaidMerchantName, m.PaymentChannel, m.PlaidCategoryID, m.PaymentMeta, m.LocationMeta, m.Active, m.SubscriptionID,
			m.CreatedAt, m.LastUpdatedAt,
		)
	}

	// Updated rows carry full post-reconciliation state; plaid_txn_id is
	// included because a pending row that posts is rewritten in place under
	// its new external id.
	updateQuery := `
        UPDATE transactions
        SET plaid_txn_id = $2, amount = $3, posted = $4, name = $5, date = $6,
            plaid_merchant_name = $7, payment_channel = $8, plaid_category_id = $9,
            payment_meta = $10, location_meta = $11, active = $12, subscription_id = $13,
            last_updated_at = $14
        WHERE transaction_id = $1;
    `
	for _, txn := range cs.Updated {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(updateQuery,
			m.TransactionID, m.PlaidTxnID, m.Amount, m.Posted, m.Name, m.Date,
			m.PlaidMerchantName, m.PaymentChannel, m.PlaidCategoryID,
			m.PaymentMeta, m.LocationMeta, m.Active, m.SubscriptionID,
			m.LastUpdatedAt,
		)
	}

	subscriptionQuery := `
        INSERT INTO subscriptions (subscription_id, account_id, name, pattern, is_new, is_tracked, is_active, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	for _, sub := range cs.NewSubscriptions {
		m := mapping.ToModelSubscription(sub)
		batch.Queue(subscriptionQuery,
			m.SubscriptionID, m.AccountID, m.Name, m.Pattern, m.IsNew, m.IsTracked, m.IsActive,
			m.CreatedAt, m.LastUpdatedAt,
		)
	}

	// Links touch rows that are otherwise untouched this pass; the row's
	// last_updated_at is deliberately left alone so a subscription tag never
	// flags a transaction for re-review.
	linkQuery := `UPDATE transactions SET subscription_id = $2 WHERE transaction_id = $1 AND subscription_id IS NULL;`
	for txnID, subID := range cs.SubscriptionLinks {
		batch.Queue(linkQuery, txnID, subID)
	}

	batch.Queue(`
        UPDATE plaid_accounts
        SET sync_start = $2, sync_end = $3, last_updated_at = $4
        WHERE account_id = $1;
    `, cs.AccountID, cs.SyncStart, cs.SyncEnd, time.Now().UTC())

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to apply sync changes: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close sync batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}
