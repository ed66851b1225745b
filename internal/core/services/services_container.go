package services

import (
	"fmt"

	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, aggregator portssvc.AggregatorSvcFacade) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	detector, err := NewSubscriptionDetector(cfg.SubscriptionPatternsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize subscription detector: %w", err)
	}

	container.User = NewUserService(repos.UserRepo, cfg)
	container.Item = NewItemService(repos.ItemRepo, repos.AccountRepo, aggregator)
	container.Account = NewAccountService(repos.AccountRepo, repos.ItemRepo, repos.TransactionRepo, repos.ReviewRepo)
	container.Sync = NewSyncService(repos.AccountRepo, repos.ItemRepo, repos.TransactionRepo, repos.SubscriptionRepo, aggregator, detector)
	container.Review = NewReviewService(repos.ReviewRepo, repos.TransactionRepo, repos.AccountRepo, repos.ItemRepo)
	container.Report = NewReportService(repos.TransactionRepo, repos.ReviewRepo, repos.AccountRepo, repos.ItemRepo)
	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo, repos.AccountRepo, repos.ItemRepo)

	return container, nil
}
