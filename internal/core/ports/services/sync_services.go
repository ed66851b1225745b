package services

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/dto"
)

// SyncSvcFacade defines transaction reconciliation against the aggregator.
//
// All methods serialize per account: two syncs of the same account never run
// concurrently.
type SyncSvcFacade interface {
	// InitialSync performs the first full fetch of an account from startDate
	// through today. Fails with ErrConflict if the account already synced.
	InitialSync(ctx context.Context, userID, accountID string, startDate time.Time) (*dto.SyncReport, error)
	// SyncAccount performs an incremental sync over the grace window.
	// Fails with ErrConflict if the account has never been synced.
	SyncAccount(ctx context.Context, userID, accountID string) (*dto.SyncReport, error)
	// SyncAllAccounts incrementally syncs every synced account across all
	// users, returning per-account reports keyed by account id. Errors on
	// individual accounts are logged and skipped.
	SyncAllAccounts(ctx context.Context) (map[string]*dto.SyncReport, error)
}
