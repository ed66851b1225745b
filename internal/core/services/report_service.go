package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/samber/lo"
)

type reportService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	reviewRepo      portsrepo.ReviewRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	itemRepo        portsrepo.ItemRepositoryFacade
}

// NewReportService creates the spending report service.
func NewReportService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	reviewRepo portsrepo.ReviewRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
) portssvc.ReportSvcFacade {
	return &reportService{
		transactionRepo: transactionRepo,
		reviewRepo:      reviewRepo,
		accountRepo:     accountRepo,
		itemRepo:        itemRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func (s *reportService) AccountReport(ctx context.Context, userID, accountID string, params dto.ReportParams) (*domain.Report, error) {
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
	return s.buildReport(ctx, []string{accountID}, params)
}

func (s *reportService) UserReport(ctx context.Context, userID string, params dto.ReportParams) (*domain.Report, error) {
	accounts, err := s.accountRepo.FindAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accountIDs := lo.Map(accounts, func(a domain.Account, _ int) string { return a.AccountID })
	return s.buildReport(ctx, accountIDs, params)
}

func (s *reportService) buildReport(ctx context.Context, accountIDs []string, params dto.ReportParams) (*domain.Report, error) {
	// Default window is month to date.
	now := time.Now().UTC()
	start, end := params.StartDate, params.EndDate
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = domain.DateOnly(now)
	}

	var txns []domain.Transaction
	for _, accountID := range accountIDs {
		windowTxns, err := s.transactionRepo.FindTransactionsInWindow(ctx, accountID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for account %s: %w", accountID, err)
		}
		txns = append(txns, windowTxns...)
	}

	txnIDs := lo.Map(txns, func(t domain.Transaction, _ int) string { return t.TransactionID })
	reviews, err := s.reviewRepo.FindReviewsByTransactionIDs(ctx, txnIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	return ComputeReport(txns, reviews, params.IncludeTransfers), nil
}

// ComputeReport folds transactions and their reviews into a categorized
// spending report.
//
// Deactivated rows are skipped entirely. Rows that still need review land in
// the unreviewed bucket only. Reviewed-deleted rows (empty category)
// contribute nothing. Transfers between the user's own accounts are excluded
// unless asked for, since they aren't spending.
func ComputeReport(txns []domain.Transaction, reviews map[string]domain.Review, includeTransfers bool) *domain.Report {
	report := domain.NewReport()

	for i := range txns {
		txn := &txns[i]
		if !txn.Active {
			continue
		}

		var review *domain.Review
		if r, ok := reviews[txn.TransactionID]; ok {
			review = &r
		}

		if txn.NeedsReview(review) {
			report.UnreviewedNet = report.UnreviewedNet.Add(txn.Amount)
			report.UnreviewedCount++
			continue
		}

		if review.Category == domain.CategoryNone {
			continue
		}
		if review.Category == domain.CategoryTransfer && !includeTransfers {
			continue
		}

		parent := domain.ParentCategory(review.Category)
		share := txn.Amount.Sub(review.Reimbursement).Sub(review.OtherReimbursement)

		report.AllNet = report.AllNet.Add(txn.Amount)
		report.ShareNet = report.ShareNet.Add(share)
		report.ReimbursedNet = report.ReimbursedNet.Add(review.Reimbursement)
		report.OtherReimbursedNet = report.OtherReimbursedNet.Add(review.OtherReimbursement)

		report.CategoryAll[review.Category] = report.CategoryAll[review.Category].Add(txn.Amount)
		report.CategoryShare[review.Category] = report.CategoryShare[review.Category].Add(share)
		report.CategoryReimbursed[review.Category] = report.CategoryReimbursed[review.Category].Add(review.Reimbursement)
		report.CategoryOtherReimbursed[review.Category] = report.CategoryOtherReimbursed[review.Category].Add(review.OtherReimbursement)
		report.ParentAll[parent] = report.ParentAll[parent].Add(txn.Amount)
		report.ParentShare[parent] = report.ParentShare[parent].Add(share)
		report.ParentReimbursed[parent] = report.ParentReimbursed[parent].Add(review.Reimbursement)
		report.ParentOtherReimbursed[parent] = report.ParentOtherReimbursed[parent].Add(review.OtherReimbursement)
	}

	report.Categories = sortedKeys(report.CategoryAll)
	report.Parents = sortedKeys(report.ParentAll)
	return report
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
