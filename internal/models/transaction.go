package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one aggregator transaction row.
//
// Rows are never deleted: when the aggregator stops reporting a transaction
// it is deactivated instead, so reviews and history survive.
type Transaction struct {
	TransactionID     string          `json:"transactionID"` // Primary Key (UUID)
	AccountID         string          `json:"accountID"`
	PlaidTxnID        string          `json:"plaidTxnID"` // Aggregator id, unique
	Amount            decimal.Decimal `json:"amount"`
	Posted            bool            `json:"posted"`
	Name              string          `json:"name"`
	Date              time.Time       `json:"date"`
	OriginalDate      time.Time       `json:"originalDate"` // Immutable first-seen date
	PlaidMerchantName *string         `json:"plaidMerchantName"`
	PaymentChannel    string          `json:"paymentChannel"`
	PlaidCategoryID   *string         `json:"plaidCategoryID"`
	PaymentMeta       json.RawMessage `json:"paymentMeta"`
	LocationMeta      json.RawMessage `json:"locationMeta"`
	Active            bool            `json:"active"`
	SubscriptionID    *string         `json:"subscriptionID"`
	AuditFields
}
