package pgsql

import (
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	itemRepo := newPgxItemRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	reviewRepo := newPgxReviewRepository(dbPool)
	subscriptionRepo := newPgxSubscriptionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		ItemRepo:         itemRepo,
		AccountRepo:      accountRepo,
		TransactionRepo:  transactionRepo,
		ReviewRepo:       reviewRepo,
		SubscriptionRepo: subscriptionRepo,
	}
}
