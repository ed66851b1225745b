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
	"github.com/shopspring/decimal"
)

type reviewService struct {
	BaseService
	reviewRepo      portsrepo.ReviewRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	itemRepo        portsrepo.ItemRepositoryFacade
}

// NewReviewService creates the transaction review service.
func NewReviewService(
	reviewRepo portsrepo.ReviewRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
) portssvc.ReviewSvcFacade {
	return &reviewService{
		reviewRepo:      reviewRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		itemRepo:        itemRepo,
	}
}

var _ portssvc.ReviewSvcFacade = (*reviewService)(nil)

func (s *reviewService) ReviewTransaction(ctx context.Context, userID, transactionID string, req dto.ReviewTransactionRequest) (*dto.ReviewResponse, error) {
	txn, err := s.authorizedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Category == domain.CategoryNone || !domain.IsLeafCategory(req.Category) {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown category %q", req.Category), apperrors.ErrValidation)
	}

	reimbursement, err := resolveReimbursement(domain.ReimbursementMode(req.Reimbursement), req.CustomAmount, txn.Amount)
	if err != nil {
		return nil, err
	}
	if req.OtherReimbursement.IsNegative() {
		return nil, apperrors.NewAppError(400, "other reimbursement cannot be negative", apperrors.ErrValidation)
	}

	review, err := s.upsertReview(ctx, txn, reimbursement, req.OtherReimbursement, req.Category, req.Notes)
	if err != nil {
		return nil, err
	}

	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, transactionID string) (*dto.ReviewResponse, error) {
	txn, err := s.authorizedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Active {
		return nil, apperrors.NewAppError(400, "transaction is still active; submit a review instead", apperrors.ErrValidation)
	}

	// Acknowledging a deactivated row writes an empty-category review: the
	// row stops asking for attention but contributes nothing to any report.
	review, err := s.upsertReview(ctx, txn, decimal.Zero, decimal.Zero, domain.CategoryNone, "")
	if err != nil {
		return nil, err
	}

	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) NextUnreviewed(ctx context.Context, userID, accountID string, afterTransactionID *string) (*dto.TransactionResponse, error) {
	if err := s.authorizeAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}

	var after *domain.Transaction
	if afterTransactionID != nil {
		cursor, err := s.transactionRepo.FindTransactionByID(ctx, *afterTransactionID)
		if err != nil {
			return nil, err
		}
		if cursor.AccountID != accountID {
			return nil, apperrors.NewAppError(400, "cursor transaction belongs to a different account", apperrors.ErrValidation)
		}
		after = cursor
	}

	txn, err := s.transactionRepo.FindNextUnreviewed(ctx, accountID, after)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Nothing left to review.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var review *domain.Review
	if r, findErr := s.reviewRepo.FindReviewByTransactionID(ctx, txn.TransactionID); findErr == nil {
		review = r
	} else if !errors.Is(findErr, apperrors.ErrNotFound) {
		return nil, findErr
	}

	resp := dto.ToTransactionResponse(txn, review)
	return &resp, nil
}

func (s *reviewService) CreateGroup(ctx context.Context, userID string, req dto.CreateGroupRequest) error {
	leader, err := s.authorizedReview(ctx, userID, req.LeaderReviewID)
	if err != nil {
		return err
	}

	memberIDs := req.MemberReviewIDs
	for _, memberID := range memberIDs {
		if _, err := s.authorizedReview(ctx, userID, memberID); err != nil {
			return err
		}
	}
	// The leader is always a member of its own group.
	hasLeader := false
	for _, id := range memberIDs {
		if id == leader.ReviewID {
			hasLeader = true
			break
		}
	}
	if !hasLeader {
		memberIDs = append(memberIDs, leader.ReviewID)
	}

	now := time.Now().UTC()
	group := domain.TransactionGroup{
		GroupID:        uuid.NewString(),
		LeaderReviewID: leader.ReviewID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.reviewRepo.SaveGroup(ctx, group, memberIDs); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	s.LogInfo(ctx, "Transaction group created", "group_id", group.GroupID, "members", len(memberIDs))
	return nil
}

func (s *reviewService) RemoveFromGroup(ctx context.Context, userID, reviewID string) error {
	if _, err := s.authorizedReview(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.RemoveReviewFromGroup(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to remove review from group: %w", err)
	}
	return nil
}

// resolveReimbursement derives the reimbursement amount from the mode. The
// derived modes are bounded by the transaction amount; CUSTOM deliberately
// skips the upper bound so a reimbursement can exceed the local share.
func resolveReimbursement(mode domain.ReimbursementMode, custom *decimal.Decimal, txnAmount decimal.Decimal) (decimal.Decimal, error) {
	switch mode {
	case domain.ReimburseNone:
		return decimal.Zero, nil
	case domain.ReimburseHalf:
		half := txnAmount.Div(decimal.NewFromInt(2)).Round(3)
		return clampReimbursement(half, txnAmount)
	case domain.ReimburseFull:
		return clampReimbursement(txnAmount, txnAmount)
	case domain.ReimburseCustom:
		if custom == nil {
			return decimal.Zero, apperrors.NewAppError(400, "custom reimbursement requires an amount", apperrors.ErrValidation)
		}
		if custom.IsNegative() {
			return decimal.Zero, apperrors.NewAppError(400, "reimbursement cannot be negative", apperrors.ErrValidation)
		}
		return *custom, nil
	default:
		return decimal.Zero, apperrors.NewAppError(400, fmt.Sprintf("unknown reimbursement mode %q", mode), apperrors.ErrValidation)
	}
}

func clampReimbursement(amount, txnAmount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() || amount.GreaterThan(txnAmount) {
		return decimal.Zero, apperrors.NewAppError(400, "reimbursement must be between zero and the transaction amount", apperrors.ErrValidation)
	}
	return amount, nil
}

// upsertReview writes the review with a fresh snapshot of the transaction as
// the user saw it. An existing review keeps its id and group membership.
func (s *reviewService) upsertReview(ctx context.Context, txn *domain.Transaction, reimbursement, other decimal.Decimal, category, notes string) (*domain.Review, error) {
	now := time.Now().UTC()

	review := domain.Review{
		ReviewID:           uuid.NewString(),
		TransactionID:      txn.TransactionID,
		Reimbursement:      reimbursement,
		OtherReimbursement: other,
		Category:           category,
		Notes:              notes,
		ReviewedAmount:     txn.Amount,
		ReviewedPosted:     txn.Posted,
		ReviewedName:       txn.Name,
		ReviewedDate:       txn.Date,
		ReviewedMerchant:   txn.PlaidMerchantName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	existing, err := s.reviewRepo.FindReviewByTransactionID(ctx, txn.TransactionID)
	if err == nil {
		review.ReviewID = existing.ReviewID
		review.GroupID = existing.GroupID
		review.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if err := s.reviewRepo.UpsertReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return &review, nil
}

func (s *reviewService) authorizedTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccount(ctx, userID, txn.AccountID); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *reviewService) authorizedReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.reviewRepo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizedTransaction(ctx, userID, review.TransactionID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) authorizeAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	item, err := s.itemRepo.FindItemByID(ctx, account.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load owning item: %w", err)
	}
	if item.UserID != userID {
		return apperrors.NewAppError(403, "account belongs to another user", apperrors.ErrForbidden)
	}
	return nil
}
