package repositories

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions.
// All date filtering is on original_date so rows never jump between windows.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by local id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// CountTransactionsByAccountID returns the number of local rows for an
	// account, including deactivated ones.
	CountTransactionsByAccountID(ctx context.Context, accountID string) (int, error)

	// FindTransactionsInWindow retrieves all rows (active or not) whose
	// original_date falls in [start, end].
	FindTransactionsInWindow(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error)

	// FindTransactionsSince retrieves all rows with original_date >= since.
	FindTransactionsSince(ctx context.Context, accountID string, since time.Time) ([]domain.Transaction, error)

	// ListTransactionsByAccounts retrieves a page of active rows across the
	// given accounts ordered by (original_date, created_at) descending,
	// using token-based pagination.
	ListTransactionsByAccounts(ctx context.Context, accountIDs []string, start, end time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindNextUnreviewed returns the first active transaction needing review,
	// ordered by (original_date, created_at), strictly after the given
	// cursor when one is supplied.
	FindNextUnreviewed(ctx context.Context, accountID string, after *domain.Transaction) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// ApplySyncChanges persists everything one reconciliation pass produced:
	// inserts, updates, deactivations, new subscriptions, subscription links
	// and the account's sync window, inside a single database transaction.
	ApplySyncChanges(ctx context.Context, cs domain.SyncChangeSet) error
}

// TransactionRepositoryFacade combines transaction reads and writes.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
