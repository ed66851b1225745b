package dto

import (
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReviewTransactionRequest is the payload for reviewing a transaction.
//
// Reimbursement selects the mode; CustomAmount is required (and only read)
// when the mode is CUSTOM. Custom amounts deliberately skip the upper-bound
// check so the secondary reimbursement can make up the difference.
type ReviewTransactionRequest struct {
	Reimbursement      string           `json:"reimbursement" binding:"required,oneof=NONE HALF FULL CUSTOM"`
	CustomAmount       *decimal.Decimal `json:"customAmount"`
	OtherReimbursement decimal.Decimal  `json:"otherReimbursement"`
	Category           string           `json:"category" binding:"required"`
	Notes              string           `json:"notes"`
}

// ReviewResponse defines the data returned for a review.
type ReviewResponse struct {
	ReviewID           string          `json:"reviewID"`
	TransactionID      string          `json:"transactionID"`
	Reimbursement      decimal.Decimal `json:"reimbursement"`
	OtherReimbursement decimal.Decimal `json:"otherReimbursement"`
	Category           string          `json:"category"`
	Notes              string          `json:"notes"`
	GroupID            *string         `json:"groupID,omitempty"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CreateGroupRequest clusters reviews under a leader review.
type CreateGroupRequest struct {
	LeaderReviewID  string   `json:"leaderReviewID" binding:"required"`
	MemberReviewIDs []string `json:"memberReviewIDs" binding:"required,min=1"`
}

// ToReviewResponse converts a domain.Review to ReviewResponse.
func ToReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:           r.ReviewID,
		TransactionID:      r.TransactionID,
		Reimbursement:      r.Reimbursement,
		OtherReimbursement: r.OtherReimbursement,
		Category:           r.Category,
		Notes:              r.Notes,
		GroupID:            r.GroupID,
		UpdatedAt:          r.LastUpdatedAt,
	}
}
