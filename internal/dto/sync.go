package dto

import (
	"fmt"
	"strings"
)

// SyncAccountRequest triggers a sync. StartDate is required for the initial
// sync of an account and ignored afterwards.
type SyncAccountRequest struct {
	StartDate *string `json:"startDate"` // YYYY-MM-DD
}

// SyncReport summarizes what one reconciliation pass changed.
type SyncReport struct {
	Added             int `json:"added"`
	Updated           int `json:"updated"`
	Unchanged         int `json:"unchanged"`
	PostedTransitions int `json:"postedTransitions"`
	NeedsReReview     int `json:"needsReReview"`
	MissingPending    int `json:"missingPending"`
	MissingPosted     int `json:"missingPosted"`
	NewSubscriptions  int `json:"newSubscriptions"`

	// FieldChanges counts, per compared field, how many matched rows had
	// that field change.
	FieldChanges map[string]int `json:"fieldChanges"`
}

// NewSyncReport returns an empty report with an allocated counter map.
func NewSyncReport() *SyncReport {
	return &SyncReport{FieldChanges: make(map[string]int)}
}

// Summary renders the report as a single human-readable line.
func (r *SyncReport) Summary() string {
	parts := []string{
		fmt.Sprintf("%d added", r.Added),
		fmt.Sprintf("%d updated", r.Updated),
		fmt.Sprintf("%d unchanged", r.Unchanged),
	}
	if r.PostedTransitions > 0 {
		parts = append(parts, fmt.Sprintf("%d posted", r.PostedTransitions))
	}
	if r.MissingPending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending vanished", r.MissingPending))
	}
	if r.MissingPosted > 0 {
		// Posted rows disappearing from the feed is unexplained data loss and
		// deserves a loud mention.
		parts = append(parts, fmt.Sprintf("%d POSTED TRANSACTIONS MISSING", r.MissingPosted))
	}
	if r.NeedsReReview > 0 {
		parts = append(parts, fmt.Sprintf("%d need re-review", r.NeedsReReview))
	}
	if r.NewSubscriptions > 0 {
		parts = append(parts, fmt.Sprintf("%d new subscriptions", r.NewSubscriptions))
	}
	return strings.Join(parts, ", ")
}

// SyncResponse is the HTTP payload wrapping a report.
type SyncResponse struct {
	Report  *SyncReport `json:"report"`
	Summary string      `json:"summary"`
}
