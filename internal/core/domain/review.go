package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReimbursementMode selects how the reimbursement amount of a review is
// derived from the transaction amount.
type ReimbursementMode string

const (
	ReimburseNone   ReimbursementMode = "NONE"
	ReimburseHalf   ReimbursementMode = "HALF"
	ReimburseFull   ReimbursementMode = "FULL"
	ReimburseCustom ReimbursementMode = "CUSTOM"
)

// Review is the user's annotation of a single transaction (1:1).
//
// The Reviewed* fields snapshot the transaction at review time so a later
// sync that changes a consequential field can be distinguished from one that
// doesn't.
type Review struct {
	ReviewID           string          `json:"reviewID"`      // Primary Key (UUID)
	TransactionID      string          `json:"transactionID"` // FK, unique
	Reimbursement      decimal.Decimal `json:"reimbursement"`
	OtherReimbursement decimal.Decimal `json:"otherReimbursement"`
	Category           string          `json:"category"` // Leaf category; empty for reviewed deletions
	Notes              string          `json:"notes"`
	ReviewedAmount     decimal.Decimal `json:"reviewedAmount"`
	ReviewedPosted     bool            `json:"reviewedPosted"`
	ReviewedName       string          `json:"reviewedName"`
	ReviewedDate       time.Time       `json:"reviewedDate"`
	ReviewedMerchant   *string         `json:"reviewedMerchant"`
	GroupID            *string         `json:"groupID"` // Optional FK -> transaction_groups.group_id
	AuditFields
}

// TransactionGroup is a user-defined cluster of reviews sharing a leader
// review, e.g. installments of one purchase. A group is deleted automatically
// when its last member leaves.
type TransactionGroup struct {
	GroupID        string `json:"groupID"` // Primary Key (UUID)
	LeaderReviewID string `json:"leaderReviewID"`
	AuditFields
}
