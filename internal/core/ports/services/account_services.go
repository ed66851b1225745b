package services

import (
	"context"

	"github.com/finch-money/finch/internal/dto"
)

// AccountSvcFacade defines account queries and maintenance.
type AccountSvcFacade interface {
	ListAccounts(ctx context.Context, userID string) ([]dto.AccountResponse, error)
	GetAccount(ctx context.Context, userID, accountID string) (*dto.AccountResponse, error)
	RenameAccount(ctx context.Context, userID, accountID, name string) (*dto.AccountResponse, error)
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
