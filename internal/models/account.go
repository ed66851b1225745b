package models

import "time"

// AccountKind distinguishes asset from liability accounts.
type AccountKind string

const (
	Depository AccountKind = "depository"
	Credit     AccountKind = "credit"
)

// Account represents a tracked bank or card account.
type Account struct {
	AccountID      string      `json:"accountID"` // Primary Key (UUID)
	ItemID         string      `json:"itemID"`
	PlaidAccountID string      `json:"plaidAccountID"`
	Name           string      `json:"name"`
	Kind           AccountKind `json:"kind"`
	SyncStart      *time.Time  `json:"syncStart"` // Nil until the initial sync
	SyncEnd        *time.Time  `json:"syncEnd"`
	AuditFields
}
