package services_test

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock ItemRepository ---
type MockItemRepository struct {
	mock.Mock
}

var _ portsrepo.ItemRepositoryFacade = (*MockItemRepository)(nil)

func (m *MockItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) FindItemsByUserID(ctx context.Context, userID string) ([]domain.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) RenameAccount(ctx context.Context, accountID, name string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, name, updatedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByItemID(ctx context.Context, itemID string) ([]domain.Account, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindSyncedAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactionsByAccountID(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsInWindow(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsSince(ctx context.Context, accountID string, since time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccounts(ctx context.Context, accountIDs []string, start, end time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountIDs, start, end, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) FindNextUnreviewed(ctx context.Context, accountID string, after *domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ApplySyncChanges(ctx context.Context, cs domain.SyncChangeSet) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

// --- Mock ReviewRepository ---
type MockReviewRepository struct {
	mock.Mock
}

var _ portsrepo.ReviewRepositoryFacade = (*MockReviewRepository)(nil)

func (m *MockReviewRepository) UpsertReview(ctx context.Context, review domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) FindReviewByTransactionID(ctx context.Context, transactionID string) (*domain.Review, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) FindReviewsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string]domain.Review, error) {
	args := m.Called(ctx, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) SaveGroup(ctx context.Context, group domain.TransactionGroup, memberReviewIDs []string) error {
	args := m.Called(ctx, group, memberReviewIDs)
	return args.Error(0)
}

func (m *MockReviewRepository) RemoveReviewFromGroup(ctx context.Context, reviewID string) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

var _ portsrepo.SubscriptionRepositoryFacade = (*MockSubscriptionRepository)(nil)

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionsByAccountID(ctx context.Context, accountID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateSubscriptionFlags(ctx context.Context, subscriptionID string, isNew, isTracked, isActive bool, updatedAt time.Time) error {
	args := m.Called(ctx, subscriptionID, isNew, isTracked, isActive, updatedAt)
	return args.Error(0)
}

// --- Mock Aggregator ---
type MockAggregator struct {
	mock.Mock
}

var _ portssvc.AggregatorSvcFacade = (*MockAggregator)(nil)

func (m *MockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	args := m.Called(ctx, publicToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAggregator) GetItem(ctx context.Context, accessToken string) (*portssvc.ItemRecord, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ItemRecord), args.Error(1)
}

func (m *MockAggregator) GetInstitution(ctx context.Context, institutionID string) (string, error) {
	args := m.Called(ctx, institutionID)
	return args.String(0), args.Error(1)
}

func (m *MockAggregator) GetAccounts(ctx context.Context, accessToken string) ([]portssvc.AccountRecord, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portssvc.AccountRecord), args.Error(1)
}

func (m *MockAggregator) GetTransactions(ctx context.Context, accessToken, plaidAccountID string, start, end time.Time, offset int) (int, []portssvc.TransactionRecord, error) {
	args := m.Called(ctx, accessToken, plaidAccountID, start, end, offset)
	if args.Get(1) == nil {
		return args.Int(0), nil, args.Error(2)
	}
	return args.Int(0), args.Get(1).([]portssvc.TransactionRecord), args.Error(2)
}
