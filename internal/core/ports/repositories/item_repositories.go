package repositories

import (
	"context"

	"github.com/finch-money/finch/internal/core/domain"
)

// ItemRepositoryFacade defines persistence operations for aggregator items.
type ItemRepositoryFacade interface {
	// SaveItem persists a newly linked item.
	SaveItem(ctx context.Context, item domain.Item) error

	// FindItemByID retrieves an item by id.
	FindItemByID(ctx context.Context, itemID string) (*domain.Item, error)

	// FindItemsByUserID retrieves all items linked by a user.
	FindItemsByUserID(ctx context.Context, userID string) ([]domain.Item, error)
}
