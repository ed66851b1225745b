package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry mirrored from the remote feed.
//
// PlaidTxnID is stable once a transaction posts, but a pending transaction
// that posts is reported under a NEW external id with a back-link to the old
// one; reconciliation rewrites PlaidTxnID in place so no duplicate row exists.
//
// Date is the remote-reported date and can move as a transaction posts.
// OriginalDate is fixed at first insert and is used for all user-facing
// ordering and filtering so rows don't visually jump between syncs.
//
// Rows are never hard-deleted: when the remote stops reporting a transaction
// it is deactivated (Active=false) and kept for audit and review.
type Transaction struct {
	TransactionID     string          `json:"transactionID"` // Primary Key (UUID)
	AccountID         string          `json:"accountID"`     // FK -> plaid_accounts.account_id
	PlaidTxnID        string          `json:"plaidTxnID"`
	Amount            decimal.Decimal `json:"amount"`
	Posted            bool            `json:"posted"`
	Name              string          `json:"name"`
	Date              time.Time       `json:"date"`
	OriginalDate      time.Time       `json:"originalDate"`
	PlaidMerchantName *string         `json:"plaidMerchantName"`
	PaymentChannel    string          `json:"paymentChannel"`
	PlaidCategoryID   *string         `json:"plaidCategoryID"`
	PaymentMeta       json.RawMessage `json:"paymentMeta"`
	LocationMeta      json.RawMessage `json:"locationMeta"`
	Active            bool            `json:"active"`
	SubscriptionID    *string         `json:"subscriptionID"` // Assigned at most once, never reassigned
	AuditFields
}

// NeedsReview reports whether the transaction requires (re-)acknowledgment:
// either no review exists, or the transaction changed after it was reviewed.
func (t *Transaction) NeedsReview(r *Review) bool {
	return r == nil || r.LastUpdatedAt.Before(t.LastUpdatedAt)
}
