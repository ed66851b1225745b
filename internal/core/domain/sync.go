package domain

import "time"

// SyncChangeSet is everything a single reconciliation pass wants to persist.
// The repository applies one change set inside one database transaction so a
// crash mid-pass never leaves the bookkeeping half-applied.
type SyncChangeSet struct {
	AccountID string
	SyncStart time.Time
	SyncEnd   time.Time

	// Added rows are brand-new local transactions. Updated rows carry the full
	// post-reconciliation state of matched or deactivated rows.
	Added   []Transaction
	Updated []Transaction

	// NewSubscriptions are detection results from this pass.
	// SubscriptionLinks assigns subscriptions to already-persisted rows that
	// are not otherwise part of Added/Updated (transaction id -> subscription id).
	NewSubscriptions  []Subscription
	SubscriptionLinks map[string]string
}

// Empty reports whether the change set contains no writes beyond the sync
// window bump.
func (cs *SyncChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Updated) == 0 &&
		len(cs.NewSubscriptions) == 0 && len(cs.SubscriptionLinks) == 0
}
