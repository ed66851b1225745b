package services

import (
	"context"

	"github.com/finch-money/finch/internal/dto"
)

// ItemSvcFacade defines the institution link flow.
type ItemSvcFacade interface {
	// LinkItem exchanges a public token and stores the resulting item. The
	// returned summary lists the item's accounts so the caller can choose
	// which ones to track.
	LinkItem(ctx context.Context, userID string, req dto.CreateItemRequest) (*dto.ItemSummaryResponse, error)
	// LinkAccounts creates tracked accounts for the selected aggregator
	// account ids under an item.
	LinkAccounts(ctx context.Context, userID, itemID string, req dto.LinkAccountsRequest) ([]dto.AccountResponse, error)
	ListItems(ctx context.Context, userID string) ([]dto.ItemResponse, error)
}
