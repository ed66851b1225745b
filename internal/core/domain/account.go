package domain

import "time"

// AccountKind is the remote account subtype (checking, savings, credit card).
type AccountKind string

const (
	KindDepository AccountKind = "depository"
	KindCredit     AccountKind = "credit"
)

// Account is one linked financial account under an Item.
//
// SyncStart/SyncEnd bound the locally synced window: both are nil until the
// initial sync runs, after which SyncEnd advances with every incremental sync.
type Account struct {
	AccountID      string      `json:"accountID"` // Primary Key (UUID)
	ItemID         string      `json:"itemID"`    // FK -> plaid_items.item_id
	PlaidAccountID string      `json:"plaidAccountID"`
	Name           string      `json:"name"`
	Kind           AccountKind `json:"kind"`
	SyncStart      *time.Time  `json:"syncStart"`
	SyncEnd        *time.Time  `json:"syncEnd"`
	AuditFields
}

// Synced reports whether the account has completed its initial sync.
func (a *Account) Synced() bool {
	return a.SyncStart != nil
}
