package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type syncServiceMocks struct {
	accountRepo *MockAccountRepository
	itemRepo    *MockItemRepository
	txnRepo     *MockTransactionRepository
	subRepo     *MockSubscriptionRepository
	aggregator  *MockAggregator
}

func newSyncServiceForTest(t *testing.T) (portssvc.SyncSvcFacade, *syncServiceMocks) {
	t.Helper()
	m := &syncServiceMocks{
		accountRepo: new(MockAccountRepository),
		itemRepo:    new(MockItemRepository),
		txnRepo:     new(MockTransactionRepository),
		subRepo:     new(MockSubscriptionRepository),
		aggregator:  new(MockAggregator),
	}
	detector, err := services.NewSubscriptionDetector("")
	require.NoError(t, err)
	svc := services.NewSyncService(m.accountRepo, m.itemRepo, m.txnRepo, m.subRepo, m.aggregator, detector)
	return svc, m
}

func testItem(userID string) *domain.Item {
	return &domain.Item{
		ItemID:          "item-1",
		UserID:          userID,
		AccessToken:     "access-token",
		PlaidItemID:     "plaid-item-1",
		InstitutionName: "Test Bank",
	}
}

func unsyncedAccount() *domain.Account {
	return &domain.Account{
		AccountID:      "acct-1",
		ItemID:         "item-1",
		PlaidAccountID: "plaid-acct-1",
		Name:           "Checking",
		Kind:           domain.KindDepository,
	}
}

func syncedAccount(syncStart, syncEnd time.Time) *domain.Account {
	a := unsyncedAccount()
	a.SyncStart = &syncStart
	a.SyncEnd = &syncEnd
	return a
}

func TestInitialSyncRejectsAlreadySyncedAccount(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	account := syncedAccount(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(account, nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)

	_, err := svc.InitialSync(context.Background(), "user-1", "acct-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestInitialSyncRejectsFutureStartDate(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.txnRepo.On("CountTransactionsByAccountID", mock.Anything, "acct-1").Return(0, nil)

	_, err := svc.InitialSync(context.Background(), "user-1", "acct-1", time.Now().UTC().AddDate(0, 0, 2))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInitialSyncRejectsAccountWithExistingRows(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.txnRepo.On("CountTransactionsByAccountID", mock.Anything, "acct-1").Return(1, nil)

	_, err := svc.InitialSync(context.Background(), "user-1", "acct-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	// The pre-existing ledger must stay untouched.
	m.aggregator.AssertNotCalled(t, "GetTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.txnRepo.AssertNotCalled(t, "ApplySyncChanges", mock.Anything, mock.Anything)
}

func TestSyncAccountRequiresInitialSync(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)

	_, err := svc.SyncAccount(context.Background(), "user-1", "acct-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSyncRejectsForeignAccount(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("someone-else"), nil)

	_, err := svc.SyncAccount(context.Background(), "user-1", "acct-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.aggregator.AssertNotCalled(t, "GetTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitialSyncPersistsChangeSet(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.txnRepo.On("CountTransactionsByAccountID", mock.Anything, "acct-1").Return(0, nil)

	record := portssvc.TransactionRecord{
		PlaidTxnID: "txn-1",
		Name:       "COFFEE SHOP",
		Amount:     decimal.RequireFromString("4.50"),
		Date:       time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	m.aggregator.On("GetTransactions", mock.Anything, "access-token", "plaid-acct-1", mock.Anything, mock.Anything, 0).
		Return(1, []portssvc.TransactionRecord{record}, nil)

	m.txnRepo.On("FindTransactionsInWindow", mock.Anything, "acct-1", mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil)
	m.txnRepo.On("FindTransactionsSince", mock.Anything, "acct-1", mock.Anything).Return([]domain.Transaction{}, nil)
	m.subRepo.On("FindSubscriptionsByAccountID", mock.Anything, "acct-1").Return([]domain.Subscription{}, nil)

	var captured domain.SyncChangeSet
	m.txnRepo.On("ApplySyncChanges", mock.Anything, mock.AnythingOfType("domain.SyncChangeSet")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.SyncChangeSet) }).
		Return(nil)

	report, err := svc.InitialSync(context.Background(), "user-1", "acct-1", start)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	require.Len(t, captured.Added, 1)
	assert.Equal(t, "acct-1", captured.AccountID)
	assert.Equal(t, start, captured.SyncStart)
	assert.Equal(t, "txn-1", captured.Added[0].PlaidTxnID)
	assert.Empty(t, captured.Updated)
	assert.Empty(t, captured.NewSubscriptions)
	m.txnRepo.AssertExpectations(t)
}

func TestSyncAllAccountsSkipsAccountsNeedingRelink(t *testing.T) {
	svc, m := newSyncServiceForTest(t)
	syncStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	syncEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	broken := *syncedAccount(syncStart, syncEnd)
	broken.AccountID = "acct-broken"
	broken.PlaidAccountID = "plaid-broken"
	healthy := *syncedAccount(syncStart, syncEnd)
	healthy.AccountID = "acct-healthy"
	healthy.PlaidAccountID = "plaid-healthy"

	m.accountRepo.On("FindSyncedAccounts", mock.Anything).Return([]domain.Account{broken, healthy}, nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)

	m.aggregator.On("GetTransactions", mock.Anything, "access-token", "plaid-broken", mock.Anything, mock.Anything, 0).
		Return(0, nil, apperrors.ErrReauthRequired)
	m.aggregator.On("GetTransactions", mock.Anything, "access-token", "plaid-healthy", mock.Anything, mock.Anything, 0).
		Return(0, []portssvc.TransactionRecord{}, nil)

	m.txnRepo.On("FindTransactionsInWindow", mock.Anything, "acct-healthy", mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil)
	m.txnRepo.On("FindTransactionsSince", mock.Anything, "acct-healthy", mock.Anything).Return([]domain.Transaction{}, nil)
	m.subRepo.On("FindSubscriptionsByAccountID", mock.Anything, "acct-healthy").Return([]domain.Subscription{}, nil)
	m.txnRepo.On("ApplySyncChanges", mock.Anything, mock.AnythingOfType("domain.SyncChangeSet")).Return(nil)

	reports, err := svc.SyncAllAccounts(context.Background())

	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Contains(t, reports, "acct-healthy")
	assert.NotContains(t, reports, "acct-broken")
}
