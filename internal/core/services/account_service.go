package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/samber/lo"
)

type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	itemRepo        portsrepo.ItemRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	reviewRepo      portsrepo.ReviewRepositoryFacade
}

// NewAccountService creates the account query/maintenance service.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	reviewRepo portsrepo.ReviewRepositoryFacade,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:     accountRepo,
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		reviewRepo:      reviewRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]dto.AccountResponse, error) {
	accounts, err := s.accountRepo.FindAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return lo.Map(accounts, func(a domain.Account, _ int) dto.AccountResponse {
		return dto.ToAccountResponse(&a)
	}), nil
}

func (s *accountService) GetAccount(ctx context.Context, userID, accountID string) (*dto.AccountResponse, error) {
	account, err := s.authorizedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToAccountResponse(account)
	return &resp, nil
}

func (s *accountService) RenameAccount(ctx context.Context, userID, accountID, name string) (*dto.AccountResponse, error) {
	account, err := s.authorizedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.RenameAccount(ctx, accountID, name, now); err != nil {
		return nil, fmt.Errorf("failed to rename account: %w", err)
	}
	s.LogInfo(ctx, "Account renamed", "account_id", accountID)

	account.Name = name
	account.LastUpdatedAt = now
	resp := dto.ToAccountResponse(account)
	return &resp, nil
}

func (s *accountService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	owned, err := s.accountRepo.FindAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	ownedIDs := lo.Map(owned, func(a domain.Account, _ int) string { return a.AccountID })

	accountIDs := params.AccountIDs
	if len(accountIDs) == 0 {
		accountIDs = ownedIDs
	} else {
		ownedSet := lo.SliceToMap(ownedIDs, func(id string) (string, bool) { return id, true })
		for _, id := range accountIDs {
			if !ownedSet[id] {
				return nil, apperrors.NewAppError(403, "account belongs to another user", apperrors.ErrForbidden)
			}
		}
	}
	if len(accountIDs) == 0 {
		return &dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil
	}

	if params.Category != "" && !domain.IsLeafCategory(params.Category) {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown category %q", params.Category), apperrors.ErrValidation)
	}

	start, end := params.StartDate, params.EndDate
	if start.IsZero() {
		start = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = domain.DateOnly(time.Now().UTC())
	}

	txns, nextToken, err := s.transactionRepo.ListTransactionsByAccounts(ctx, accountIDs, start, end, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txnIDs := lo.Map(txns, func(t domain.Transaction, _ int) string { return t.TransactionID })
	reviews, err := s.reviewRepo.FindReviewsByTransactionIDs(ctx, txnIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		var review *domain.Review
		if r, ok := reviews[txns[i].TransactionID]; ok {
			review = &r
		}
		// The category filter applies within the page; unreviewed rows
		// never match a category.
		if params.Category != "" && (review == nil || review.Category != params.Category) {
			continue
		}
		resp.Transactions = append(resp.Transactions, dto.ToTransactionResponse(&txns[i], review))
	}
	return resp, nil
}

// authorizedAccount loads an account and verifies the caller owns it through
// the item chain.
func (s *accountService) authorizedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindItemByID(ctx, account.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owning item: %w", err)
	}
	if item.UserID != userID {
		return nil, apperrors.NewAppError(403, "account belongs to another user", apperrors.ErrForbidden)
	}
	return account, nil
}
