package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/core/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	reportSyncedAt   = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	reportReviewedAt = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
)

func reportTxn(id, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		AccountID:     "acct-1",
		Amount:        decimal.RequireFromString(amount),
		Active:        true,
		AuditFields:   domain.AuditFields{LastUpdatedAt: reportSyncedAt},
	}
}

func reportReview(txnID, category, reimbursement, other string) domain.Review {
	return domain.Review{
		ReviewID:           "rev-" + txnID,
		TransactionID:      txnID,
		Category:           category,
		Reimbursement:      decimal.RequireFromString(reimbursement),
		OtherReimbursement: decimal.RequireFromString(other),
		AuditFields:        domain.AuditFields{LastUpdatedAt: reportReviewedAt},
	}
}

func TestComputeReportShareArithmetic(t *testing.T) {
	txns := []domain.Transaction{
		reportTxn("t-1", "100.00"),
		reportTxn("t-2", "40.00"),
	}
	reviews := map[string]domain.Review{
		"t-1": reportReview("t-1", "Social Dining", "30.00", "10.00"),
		"t-2": reportReview("t-2", "Groceries", "0", "0"),
	}

	report := services.ComputeReport(txns, reviews, false)

	assert.True(t, report.AllNet.Equal(decimal.RequireFromString("140.00")))
	// Share is the amount minus both reimbursement components.
	assert.True(t, report.ShareNet.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, report.ReimbursedNet.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, report.OtherReimbursedNet.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 0, report.UnreviewedCount)

	assert.True(t, report.CategoryAll["Social Dining"].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, report.CategoryShare["Social Dining"].Equal(decimal.RequireFromString("60.00")))
	assert.True(t, report.CategoryReimbursed["Social Dining"].Equal(decimal.RequireFromString("30.00")))
	assert.True(t, report.CategoryOtherReimbursed["Social Dining"].Equal(decimal.RequireFromString("10.00")))
	assert.True(t, report.CategoryOtherReimbursed["Groceries"].IsZero())

	// Both leaves roll up into their parent category.
	assert.True(t, report.ParentAll["Food"].Equal(decimal.RequireFromString("140.00")))
	assert.True(t, report.ParentReimbursed["Food"].Equal(decimal.RequireFromString("30.00")))
	assert.True(t, report.ParentOtherReimbursed["Food"].Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, []string{"Groceries", "Social Dining"}, report.Categories)
	assert.Equal(t, []string{"Food"}, report.Parents)
}

func TestComputeReportUnreviewedBucket(t *testing.T) {
	fresh := reportTxn("t-reviewed", "20.00")

	// Reviewed once, but the sync touched the row afterwards.
	stale := reportTxn("t-stale", "50.00")
	stale.LastUpdatedAt = reportReviewedAt.AddDate(0, 0, 1)

	never := reportTxn("t-never", "5.00")

	reviews := map[string]domain.Review{
		"t-reviewed": reportReview("t-reviewed", "Groceries", "0", "0"),
		"t-stale":    reportReview("t-stale", "Groceries", "0", "0"),
	}

	report := services.ComputeReport([]domain.Transaction{fresh, stale, never}, reviews, false)

	assert.Equal(t, 2, report.UnreviewedCount)
	assert.True(t, report.UnreviewedNet.Equal(decimal.RequireFromString("55.00")))
	// Unreviewed rows stay out of every categorized number.
	assert.True(t, report.AllNet.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, report.CategoryAll["Groceries"].Equal(decimal.RequireFromString("20.00")))
}

func TestComputeReportSkipsInactiveRows(t *testing.T) {
	gone := reportTxn("t-gone", "99.00")
	gone.Active = false

	report := services.ComputeReport([]domain.Transaction{gone}, nil, false)

	assert.True(t, report.AllNet.IsZero())
	assert.True(t, report.UnreviewedNet.IsZero())
	assert.Equal(t, 0, report.UnreviewedCount)
}

func TestComputeReportReviewedDeletionsContributeNothing(t *testing.T) {
	deleted := reportTxn("t-deleted", "75.00")
	reviews := map[string]domain.Review{
		"t-deleted": reportReview("t-deleted", domain.CategoryNone, "0", "0"),
	}

	report := services.ComputeReport([]domain.Transaction{deleted}, reviews, false)

	assert.True(t, report.AllNet.IsZero())
	assert.Equal(t, 0, report.UnreviewedCount)
	assert.Empty(t, report.Categories)
}

func TestComputeReportTransferExclusion(t *testing.T) {
	txns := []domain.Transaction{
		reportTxn("t-transfer", "500.00"),
		reportTxn("t-coffee", "4.50"),
	}
	reviews := map[string]domain.Review{
		"t-transfer": reportReview("t-transfer", domain.CategoryTransfer, "0", "0"),
		"t-coffee":   reportReview("t-coffee", "Coffee", "0", "0"),
	}

	excluded := services.ComputeReport(txns, reviews, false)
	assert.True(t, excluded.AllNet.Equal(decimal.RequireFromString("4.50")))
	assert.NotContains(t, excluded.Categories, domain.CategoryTransfer)

	included := services.ComputeReport(txns, reviews, true)
	assert.True(t, included.AllNet.Equal(decimal.RequireFromString("504.50")))
	assert.Contains(t, included.Categories, domain.CategoryTransfer)
	assert.True(t, included.ParentAll["Finance"].Equal(decimal.RequireFromString("500.00")))
}

func TestUserReportSpansAllAccounts(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	itemRepo := new(MockItemRepository)
	txnRepo := new(MockTransactionRepository)
	reviewRepo := new(MockReviewRepository)
	svc := services.NewReportService(txnRepo, reviewRepo, accountRepo, itemRepo)

	acctA := *unsyncedAccount()
	acctB := *unsyncedAccount()
	acctB.AccountID = "acct-2"
	accountRepo.On("FindAccountsByUserID", mock.Anything, "user-1").Return([]domain.Account{acctA, acctB}, nil)

	txnA := reportTxn("t-a", "10.00")
	txnB := reportTxn("t-b", "20.00")
	txnB.AccountID = "acct-2"
	txnRepo.On("FindTransactionsInWindow", mock.Anything, "acct-1", mock.Anything, mock.Anything).Return([]domain.Transaction{txnA}, nil)
	txnRepo.On("FindTransactionsInWindow", mock.Anything, "acct-2", mock.Anything, mock.Anything).Return([]domain.Transaction{txnB}, nil)

	reviewRepo.On("FindReviewsByTransactionIDs", mock.Anything, []string{"t-a", "t-b"}).Return(map[string]domain.Review{
		"t-a": reportReview("t-a", "Groceries", "0", "0"),
		"t-b": reportReview("t-b", "Coffee", "0", "0"),
	}, nil)

	report, err := svc.UserReport(context.Background(), "user-1", dto.ReportParams{})

	require.NoError(t, err)
	assert.True(t, report.AllNet.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, []string{"Coffee", "Groceries"}, report.Categories)
}
