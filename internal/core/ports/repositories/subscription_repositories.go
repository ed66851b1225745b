package repositories

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
)

// SubscriptionRepositoryFacade defines persistence operations for detected
// subscriptions. Creation happens only through a sync change set; this facade
// covers reads and user-driven flag updates.
type SubscriptionRepositoryFacade interface {
	// FindSubscriptionByID retrieves a subscription by id.
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)

	// FindSubscriptionsByAccountID retrieves all subscriptions for an account.
	FindSubscriptionsByAccountID(ctx context.Context, accountID string) ([]domain.Subscription, error)

	// UpdateSubscriptionFlags updates the confirmation/tracking lifecycle
	// flags of a subscription.
	UpdateSubscriptionFlags(ctx context.Context, subscriptionID string, isNew, isTracked, isActive bool, updatedAt time.Time) error
}
