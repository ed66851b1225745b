package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
)

type subscriptionService struct {
	BaseService
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	accountRepo      portsrepo.AccountRepositoryFacade
	itemRepo         portsrepo.ItemRepositoryFacade
}

// NewSubscriptionService creates the subscription curation service.
func NewSubscriptionService(
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		accountRepo:      accountRepo,
		itemRepo:         itemRepo,
	}
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID, accountID string) ([]dto.SubscriptionResponse, error) {
	if err := s.authorizeAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	subs, err := s.subscriptionRepo.FindSubscriptionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return dto.ToSubscriptionResponses(subs), nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, userID, subscriptionID string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccount(ctx, userID, sub.AccountID); err != nil {
		return nil, err
	}

	if req.IsTracked != nil {
		sub.IsTracked = *req.IsTracked
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	// Any user decision, either way, confirms the detection.
	sub.IsNew = false
	sub.LastUpdatedAt = time.Now().UTC()

	if err := s.subscriptionRepo.UpdateSubscriptionFlags(ctx, subscriptionID, sub.IsNew, sub.IsTracked, sub.IsActive, sub.LastUpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	s.LogInfo(ctx, "Subscription updated", "subscription_id", subscriptionID, "tracked", sub.IsTracked, "active", sub.IsActive)

	resp := dto.ToSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) authorizeAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	item, err := s.itemRepo.FindItemByID(ctx, account.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load owning item: %w", err)
	}
	if item.UserID != userID {
		return apperrors.NewAppError(403, "account belongs to another user", apperrors.ErrForbidden)
	}
	return nil
}
