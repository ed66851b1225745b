package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReviewRepository struct {
	BaseRepository
}

func newPgxReviewRepository(pool *pgxpool.Pool) portsrepo.ReviewRepositoryFacade {
	return &PgxReviewRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReviewRepositoryFacade = (*PgxReviewRepository)(nil)

const reviewColumns = `review_id, transaction_id, reimbursement, other_reimbursement, category, notes,
	reviewed_amount, reviewed_posted, reviewed_name, reviewed_date, reviewed_merchant, group_id,
	created_at, last_updated_at`

func scanReview(row pgx.Row) (models.Review, error) {
	var m models.Review
	err := row.Scan(
		&m.ReviewID,
		&m.TransactionID,
		&m.Reimbursement,
		&m.OtherReimbursement,
		&m.Category,
		&m.Notes,
		&m.ReviewedAmount,
		&m.ReviewedPosted,
		&m.ReviewedName,
		&m.ReviewedDate,
		&m.ReviewedMerchant,
		&m.GroupID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxReviewRepository) UpsertReview(ctx context.Context, review domain.Review) error {
	m := mapping.ToModelReview(review)
	query := `
        INSERT INTO transaction_reviews (` + reviewColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (transaction_id) DO UPDATE SET
            reimbursement = EXCLUDED.reimbursement,
            other_reimbursement = EXCLUDED.other_reimbursement,
            category = EXCLUDED.category,
            notes = EXCLUDED.notes,
            reviewed_amount = EXCLUDED.reviewed_amount,
            reviewed_posted = EXCLUDED.reviewed_posted,
            reviewed_name = EXCLUDED.reviewed_name,
            reviewed_date = EXCLUDED.reviewed_date,
            reviewed_merchant = EXCLUDED.reviewed_merchant,
            last_updated_at = EXCLUDED.last_updated_at;
    `
	_, err := r.Pool.Exec(ctx, query,
		m.ReviewID,
		m.TransactionID,
		m.Reimbursement,
		m.OtherReimbursement,
		m.Category,
		m.Notes,
		m.ReviewedAmount,
		m.ReviewedPosted,
		m.ReviewedName,
		m.ReviewedDate,
		m.ReviewedMerchant,
		m.GroupID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}
	return nil
}

func (r *PgxReviewRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM transaction_reviews WHERE review_id = $1;`
	m, err := scanReview(r.Pool.QueryRow(ctx, query, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review %s: %w", reviewID, err)
	}
	d := mapping.ToDomainReview(m)
	return &d, nil
}

func (r *PgxReviewRepository) FindReviewByTransactionID(ctx context.Context, transactionID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM transaction_reviews WHERE transaction_id = $1;`
	m, err := scanReview(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review for transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainReview(m)
	return &d, nil
}

func (r *PgxReviewRepository) FindReviewsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string]domain.Review, error) {
	if len(transactionIDs) == 0 {
		return map[string]domain.Review{}, nil
	}

	query := `SELECT ` + reviewColumns + ` FROM transaction_reviews WHERE transaction_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make(map[string]domain.Review, len(transactionIDs))
	for rows.Next() {
		m, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews[m.TransactionID] = mapping.ToDomainReview(m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", rows.Err())
	}

	return reviews, nil
}

func (r *PgxReviewRepository) SaveGroup(ctx context.Context, group domain.TransactionGroup, memberReviewIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTransactionGroup(group)
	_, err = tx.Exec(ctx, `
        INSERT INTO transaction_groups (group_id, leader_review_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4);
    `, m.GroupID, m.LeaderReviewID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
        UPDATE transaction_reviews SET group_id = $1 WHERE review_id = ANY($2);
    `, m.GroupID, memberReviewIDs)
	if err != nil {
		return fmt.Errorf("failed to attach reviews to group: %w", err)
	}
	if int(cmdTag.RowsAffected()) != len(memberReviewIDs) {
		return fmt.Errorf("some reviews not found: %w", apperrors.ErrNotFound)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxReviewRepository) RemoveReviewFromGroup(ctx context.Context, reviewID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var groupID *string
	err = tx.QueryRow(ctx, `
        SELECT group_id FROM transaction_reviews WHERE review_id = $1 FOR UPDATE;
    `, reviewID).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load review group: %w", err)
	}
	if groupID == nil {
		// Review was not in a group; nothing to do.
		return r.Commit(ctx, tx)
	}

	_, err = tx.Exec(ctx, `
        UPDATE transaction_reviews SET group_id = NULL WHERE review_id = $1;
    `, reviewID)
	if err != nil {
		return fmt.Errorf("failed to detach review from group: %w", err)
	}

	// Groups don't outlive their last member.
	_, err = tx.Exec(ctx, `
        DELETE FROM transaction_groups g
        WHERE g.group_id = $1
          AND NOT EXISTS (SELECT 1 FROM transaction_reviews tr WHERE tr.group_id = g.group_id);
    `, *groupID)
	if err != nil {
		return fmt.Errorf("failed to prune empty group: %w", err)
	}

	return r.Commit(ctx, tx)
}
