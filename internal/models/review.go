package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review represents a user's judgment of one transaction. The reviewed_*
// columns snapshot the transaction as it looked when judged, so later syncs
// can be diffed against what the user actually saw.
type Review struct {
	ReviewID           string          `json:"reviewID"` // Primary Key (UUID)
	TransactionID      string          `json:"transactionID"`
	Reimbursement      decimal.Decimal `json:"reimbursement"`
	OtherReimbursement decimal.Decimal `json:"otherReimbursement"`
	Category           string          `json:"category"` // Empty means reviewed-deleted
	Notes              string          `json:"notes"`
	ReviewedAmount     decimal.Decimal `json:"reviewedAmount"`
	ReviewedPosted     bool            `json:"reviewedPosted"`
	ReviewedName       string          `json:"reviewedName"`
	ReviewedDate       time.Time       `json:"reviewedDate"`
	ReviewedMerchant   *string         `json:"reviewedMerchant"`
	GroupID            *string         `json:"groupID"`
	AuditFields
}

// TransactionGroup clusters related reviews under a leader.
type TransactionGroup struct {
	GroupID        string `json:"groupID"` // Primary Key (UUID)
	LeaderReviewID string `json:"leaderReviewID"`
	AuditFields
}
