package services

import (
	"context"

	"github.com/finch-money/finch/internal/dto"
)

// SubscriptionSvcFacade defines recurring-charge detection and curation.
type SubscriptionSvcFacade interface {
	ListSubscriptions(ctx context.Context, userID, accountID string) ([]dto.SubscriptionResponse, error)
	// UpdateSubscription confirms or retires a detection; any update clears
	// the is_new flag.
	UpdateSubscription(ctx context.Context, userID, subscriptionID string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
}
