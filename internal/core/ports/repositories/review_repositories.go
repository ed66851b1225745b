package repositories

import (
	"context"

	"github.com/finch-money/finch/internal/core/domain"
)

// ReviewRepositoryFacade defines persistence operations for reviews and
// transaction groups.
type ReviewRepositoryFacade interface {
	// UpsertReview inserts or replaces the review for a transaction. At most
	// one review exists per transaction.
	UpsertReview(ctx context.Context, review domain.Review) error

	// FindReviewByID retrieves a review by its own id, or apperrors.ErrNotFound.
	FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error)

	// FindReviewByTransactionID retrieves the review for a transaction, or
	// apperrors.ErrNotFound.
	FindReviewByTransactionID(ctx context.Context, transactionID string) (*domain.Review, error)

	// FindReviewsByTransactionIDs retrieves reviews for many transactions,
	// keyed by transaction id. Missing reviews are simply absent.
	FindReviewsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string]domain.Review, error)

	// SaveGroup creates a transaction group and attaches the member reviews
	// atomically.
	SaveGroup(ctx context.Context, group domain.TransactionGroup, memberReviewIDs []string) error

	// RemoveReviewFromGroup detaches a review from its group, deleting the
	// group when the last member leaves.
	RemoveReviewFromGroup(ctx context.Context, reviewID string) error
}
