package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/core/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reviewServiceMocks struct {
	reviewRepo  *MockReviewRepository
	txnRepo     *MockTransactionRepository
	accountRepo *MockAccountRepository
	itemRepo    *MockItemRepository
}

func newReviewServiceForTest(t *testing.T) (portssvc.ReviewSvcFacade, *reviewServiceMocks) {
	t.Helper()
	m := &reviewServiceMocks{
		reviewRepo:  new(MockReviewRepository),
		txnRepo:     new(MockTransactionRepository),
		accountRepo: new(MockAccountRepository),
		itemRepo:    new(MockItemRepository),
	}
	svc := services.NewReviewService(m.reviewRepo, m.txnRepo, m.accountRepo, m.itemRepo)
	return svc, m
}

func reviewableTxn(amount string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: "txn-1",
		AccountID:     "acct-1",
		PlaidTxnID:    "plaid-txn-1",
		Amount:        decimal.RequireFromString(amount),
		Posted:        true,
		Name:          "RESTAURANT",
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		OriginalDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	}
}

// expectOwnership wires the transaction -> account -> item -> user chain.
func (m *reviewServiceMocks) expectOwnership(txn *domain.Transaction, userID string) {
	m.txnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	m.accountRepo.On("FindAccountByID", mock.Anything, txn.AccountID).Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem(userID), nil)
}

func TestReviewTransactionHalfMode(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	txn := reviewableTxn("10.00")
	m.expectOwnership(txn, "user-1")
	m.reviewRepo.On("FindReviewByTransactionID", mock.Anything, "txn-1").Return(nil, apperrors.ErrNotFound)

	var captured domain.Review
	m.reviewRepo.On("UpsertReview", mock.Anything, mock.AnythingOfType("domain.Review")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.Review) }).
		Return(nil)

	resp, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "HALF",
		Category:      "Social Dining",
		Notes:         "dinner with friends",
	})

	require.NoError(t, err)
	assert.True(t, resp.Reimbursement.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, "Social Dining", captured.Category)
	assert.Equal(t, "dinner with friends", captured.Notes)

	// The review snapshots the transaction as the user saw it.
	assert.True(t, captured.ReviewedAmount.Equal(txn.Amount))
	assert.Equal(t, txn.Name, captured.ReviewedName)
	assert.True(t, captured.ReviewedPosted)
}

func TestReviewHalfRoundsToStorageScale(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	txn := reviewableTxn("10.01")
	m.expectOwnership(txn, "user-1")
	m.reviewRepo.On("FindReviewByTransactionID", mock.Anything, "txn-1").Return(nil, apperrors.ErrNotFound)
	m.reviewRepo.On("UpsertReview", mock.Anything, mock.AnythingOfType("domain.Review")).Return(nil)

	resp, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "HALF",
		Category:      "Groceries",
	})

	require.NoError(t, err)
	assert.True(t, resp.Reimbursement.Equal(decimal.RequireFromString("5.005")))
}

func TestReviewCustomMayExceedTransactionAmount(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	txn := reviewableTxn("100.00")
	m.expectOwnership(txn, "user-1")
	m.reviewRepo.On("FindReviewByTransactionID", mock.Anything, "txn-1").Return(nil, apperrors.ErrNotFound)
	m.reviewRepo.On("UpsertReview", mock.Anything, mock.AnythingOfType("domain.Review")).Return(nil)

	custom := decimal.RequireFromString("150.00")
	resp, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "CUSTOM",
		CustomAmount:  &custom,
		Category:      "Social Dining",
	})

	require.NoError(t, err)
	assert.True(t, resp.Reimbursement.Equal(custom))
}

func TestReviewCustomRequiresAmount(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.expectOwnership(reviewableTxn("100.00"), "user-1")

	_, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "CUSTOM",
		Category:      "Social Dining",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReviewRejectsNonLeafCategory(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.expectOwnership(reviewableTxn("10.00"), "user-1")

	for _, category := range []string{"Food", "NotACategory", ""} {
		_, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
			Reimbursement: "NONE",
			Category:      category,
		})
		require.Errorf(t, err, "category %q should be rejected", category)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestReviewRejectsNegativeOtherReimbursement(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.expectOwnership(reviewableTxn("10.00"), "user-1")

	_, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement:      "NONE",
		OtherReimbursement: decimal.RequireFromString("-1"),
		Category:           "Groceries",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReviewRejectsForeignTransaction(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.expectOwnership(reviewableTxn("10.00"), "someone-else")

	_, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "NONE",
		Category:      "Groceries",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.reviewRepo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
}

func TestReReviewKeepsIdentityAndGroup(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	txn := reviewableTxn("10.00")
	m.expectOwnership(txn, "user-1")

	groupID := "group-1"
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Review{
		ReviewID:      "rev-1",
		TransactionID: "txn-1",
		Category:      "Groceries",
		GroupID:       &groupID,
		AuditFields:   domain.AuditFields{CreatedAt: createdAt},
	}
	m.reviewRepo.On("FindReviewByTransactionID", mock.Anything, "txn-1").Return(existing, nil)

	var captured domain.Review
	m.reviewRepo.On("UpsertReview", mock.Anything, mock.AnythingOfType("domain.Review")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.Review) }).
		Return(nil)

	_, err := svc.ReviewTransaction(context.Background(), "user-1", "txn-1", dto.ReviewTransactionRequest{
		Reimbursement: "NONE",
		Category:      "Coffee",
	})

	require.NoError(t, err)
	assert.Equal(t, "rev-1", captured.ReviewID)
	require.NotNil(t, captured.GroupID)
	assert.Equal(t, groupID, *captured.GroupID)
	assert.Equal(t, createdAt, captured.CreatedAt)
	assert.Equal(t, "Coffee", captured.Category)
}

func TestDeleteReviewWritesEmptyCategoryReview(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	txn := reviewableTxn("10.00")
	txn.Active = false
	m.expectOwnership(txn, "user-1")
	m.reviewRepo.On("FindReviewByTransactionID", mock.Anything, "txn-1").Return(nil, apperrors.ErrNotFound)

	var captured domain.Review
	m.reviewRepo.On("UpsertReview", mock.Anything, mock.AnythingOfType("domain.Review")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.Review) }).
		Return(nil)

	resp, err := svc.DeleteReview(context.Background(), "user-1", "txn-1")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNone, captured.Category)
	assert.True(t, captured.Reimbursement.IsZero())
	assert.True(t, captured.OtherReimbursement.IsZero())
	assert.Equal(t, domain.CategoryNone, resp.Category)
}

func TestDeleteReviewRejectsActiveTransaction(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.expectOwnership(reviewableTxn("10.00"), "user-1")

	_, err := svc.DeleteReview(context.Background(), "user-1", "txn-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	// An active row must keep its place in the review queue and reports.
	m.reviewRepo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
}

func TestCreateGroupAlwaysIncludesLeader(t *testing.T) {
	svc, m := newReviewServiceForTest(t)

	for _, reviewID := range []string{"rev-leader", "rev-member"} {
		review := &domain.Review{ReviewID: reviewID, TransactionID: "txn-" + reviewID}
		m.reviewRepo.On("FindReviewByID", mock.Anything, reviewID).Return(review, nil)
		txn := reviewableTxn("10.00")
		txn.TransactionID = "txn-" + reviewID
		m.txnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)
	}
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)

	var capturedGroup domain.TransactionGroup
	var capturedMembers []string
	m.reviewRepo.On("SaveGroup", mock.Anything, mock.AnythingOfType("domain.TransactionGroup"), mock.Anything).
		Run(func(args mock.Arguments) {
			capturedGroup = args.Get(1).(domain.TransactionGroup)
			capturedMembers = args.Get(2).([]string)
		}).
		Return(nil)

	err := svc.CreateGroup(context.Background(), "user-1", dto.CreateGroupRequest{
		LeaderReviewID:  "rev-leader",
		MemberReviewIDs: []string{"rev-member"},
	})

	require.NoError(t, err)
	assert.Equal(t, "rev-leader", capturedGroup.LeaderReviewID)
	assert.ElementsMatch(t, []string{"rev-leader", "rev-member"}, capturedMembers)
}

func TestNextUnreviewedEmptyQueue(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.txnRepo.On("FindNextUnreviewed", mock.Anything, "acct-1", (*domain.Transaction)(nil)).Return(nil, apperrors.ErrNotFound)

	resp, err := svc.NextUnreviewed(context.Background(), "user-1", "acct-1", nil)

	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestNextUnreviewedRejectsForeignCursor(t *testing.T) {
	svc, m := newReviewServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)

	cursor := reviewableTxn("10.00")
	cursor.TransactionID = "txn-other"
	cursor.AccountID = "acct-other"
	m.txnRepo.On("FindTransactionByID", mock.Anything, "txn-other").Return(cursor, nil)

	after := "txn-other"
	_, err := svc.NextUnreviewed(context.Background(), "user-1", "acct-1", &after)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
