package repositories

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
)

// AccountReader defines read operations for linked accounts.
type AccountReader interface {
	// FindAccountByID retrieves an account by id.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByItemID retrieves all accounts linked under an item.
	FindAccountsByItemID(ctx context.Context, itemID string) ([]domain.Account, error)

	// FindAccountsByUserID retrieves all accounts across a user's items.
	FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// FindSyncedAccounts retrieves every account whose initial sync has run,
	// across all users. Used by the background sync scheduler.
	FindSyncedAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for linked accounts.
type AccountWriter interface {
	// SaveAccount persists a newly linked account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// RenameAccount updates the display name of an account.
	RenameAccount(ctx context.Context, accountID, name string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines account reads and writes.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
