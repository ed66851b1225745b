package services

import (
	"context"

	"github.com/finch-money/finch/internal/dto"
)

// ReviewSvcFacade defines the transaction review workflow.
type ReviewSvcFacade interface {
	// ReviewTransaction records or replaces the review for a transaction and
	// snapshots the transaction fields it was judged against.
	ReviewTransaction(ctx context.Context, userID, transactionID string, req dto.ReviewTransactionRequest) (*dto.ReviewResponse, error)
	// DeleteReview reviews a transaction out of existence: the row keeps a
	// review (so it no longer needs review) but carries no category and
	// contributes nothing to reports.
	DeleteReview(ctx context.Context, userID, transactionID string) (*dto.ReviewResponse, error)
	// NextUnreviewed returns the oldest transaction on the account that still
	// needs review, optionally after a given transaction.
	NextUnreviewed(ctx context.Context, userID, accountID string, afterTransactionID *string) (*dto.TransactionResponse, error)
	CreateGroup(ctx context.Context, userID string, req dto.CreateGroupRequest) error
	RemoveFromGroup(ctx context.Context, userID, reviewID string) error
}
