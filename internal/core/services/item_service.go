package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type itemService struct {
	BaseService
	itemRepo    portsrepo.ItemRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	aggregator  portssvc.AggregatorSvcFacade
}

// NewItemService creates the institution link-flow service.
func NewItemService(itemRepo portsrepo.ItemRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, aggregator portssvc.AggregatorSvcFacade) portssvc.ItemSvcFacade {
	return &itemService{itemRepo: itemRepo, accountRepo: accountRepo, aggregator: aggregator}
}

var _ portssvc.ItemSvcFacade = (*itemService)(nil)

func (s *itemService) LinkItem(ctx context.Context, userID string, req dto.CreateItemRequest) (*dto.ItemSummaryResponse, error) {
	accessToken, plaidItemID, err := s.aggregator.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to exchange public token")
		return nil, fmt.Errorf("failed to exchange public token: %w", err)
	}

	itemRecord, err := s.aggregator.GetItem(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item metadata: %w", err)
	}

	institutionName, err := s.aggregator.GetInstitution(ctx, itemRecord.InstitutionID)
	if err != nil {
		// The link still works without a pretty name.
		s.LogWarn(ctx, "Failed to resolve institution name", "institution_id", itemRecord.InstitutionID, "error", err.Error())
		institutionName = itemRecord.InstitutionID
	}

	now := time.Now().UTC()
	item := domain.Item{
		ItemID:          uuid.NewString(),
		UserID:          userID,
		AccessToken:     accessToken,
		PlaidItemID:     plaidItemID,
		InstitutionName: institutionName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.itemRepo.SaveItem(ctx, item); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, "institution already linked", err)
		}
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	s.LogInfo(ctx, "Item linked", "item_id", item.ItemID, "institution", institutionName)

	return s.itemSummary(ctx, &item)
}

func (s *itemService) LinkAccounts(ctx context.Context, userID, itemID string, req dto.LinkAccountsRequest) ([]dto.AccountResponse, error) {
	item, err := s.authorizedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	remoteAccounts, err := s.aggregator.GetAccounts(ctx, item.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote accounts: %w", err)
	}
	remoteByID := lo.KeyBy(remoteAccounts, func(a portssvc.AccountRecord) string { return a.PlaidAccountID })

	existing, err := s.accountRepo.FindAccountsByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	alreadyLinked := lo.SliceToMap(existing, func(a domain.Account) (string, bool) { return a.PlaidAccountID, true })

	now := time.Now().UTC()
	linked := make([]dto.AccountResponse, 0, len(req.PlaidAccountIDs))
	for _, plaidAccountID := range req.PlaidAccountIDs {
		remote, ok := remoteByID[plaidAccountID]
		if !ok {
			return nil, apperrors.NewAppError(400, fmt.Sprintf("account %s does not exist at the institution", plaidAccountID), apperrors.ErrValidation)
		}
		if alreadyLinked[plaidAccountID] {
			return nil, apperrors.NewAppError(409, fmt.Sprintf("account %s is already linked", plaidAccountID), apperrors.ErrDuplicate)
		}

		account := domain.Account{
			AccountID:      uuid.NewString(),
			ItemID:         itemID,
			PlaidAccountID: plaidAccountID,
			Name:           remote.Name,
			Kind:           accountKindFromType(remote.Type),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to save account %s: %w", plaidAccountID, err)
		}
		linked = append(linked, dto.ToAccountResponse(&account))
	}

	s.LogInfo(ctx, "Accounts linked", "item_id", itemID, "count", len(linked))
	return linked, nil
}

func (s *itemService) ListItems(ctx context.Context, userID string) ([]dto.ItemResponse, error) {
	items, err := s.itemRepo.FindItemsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	responses := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		accounts, err := s.accountRepo.FindAccountsByItemID(ctx, items[i].ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts for item %s: %w", items[i].ItemID, err)
		}
		responses = append(responses, dto.ToItemResponse(&items[i], accounts))
	}
	return responses, nil
}

// itemSummary lists the remote accounts not yet linked under the item.
func (s *itemService) itemSummary(ctx context.Context, item *domain.Item) (*dto.ItemSummaryResponse, error) {
	remoteAccounts, err := s.aggregator.GetAccounts(ctx, item.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote accounts: %w", err)
	}

	existing, err := s.accountRepo.FindAccountsByItemID(ctx, item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	alreadyLinked := lo.SliceToMap(existing, func(a domain.Account) (string, bool) { return a.PlaidAccountID, true })

	summary := &dto.ItemSummaryResponse{
		ItemID:          item.ItemID,
		InstitutionName: item.InstitutionName,
	}
	for _, remote := range remoteAccounts {
		if alreadyLinked[remote.PlaidAccountID] {
			continue
		}
		summary.EligibleAccounts = append(summary.EligibleAccounts, dto.EligibleAccount{
			PlaidAccountID: remote.PlaidAccountID,
			Name:           remote.Name,
			Kind:           string(accountKindFromType(remote.Type)),
		})
	}
	return summary, nil
}

func (s *itemService) authorizedItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, apperrors.NewAppError(403, "item belongs to another user", apperrors.ErrForbidden)
	}
	return item, nil
}

func accountKindFromType(remoteType string) domain.AccountKind {
	if remoteType == "credit" {
		return domain.KindCredit
	}
	return domain.KindDepository
}
