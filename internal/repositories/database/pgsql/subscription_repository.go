package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSubscriptionRepository struct {
	db *pgxpool.Pool
}

func newPgxSubscriptionRepository(db *pgxpool.Pool) portsrepo.SubscriptionRepositoryFacade {
	return &PgxSubscriptionRepository{db: db}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

const subscriptionColumns = `subscription_id, account_id, name, pattern, is_new, is_tracked, is_active, created_at, last_updated_at`

func scanSubscription(row pgx.Row) (models.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID,
		&m.AccountID,
		&m.Name,
		&m.Pattern,
		&m.IsNew,
		&m.IsTracked,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1;`
	m, err := scanSubscription(r.db.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by ID %s: %w", subscriptionID, err)
	}
	d := mapping.ToDomainSubscription(m)
	return &d, nil
}

func (r *PgxSubscriptionRepository) FindSubscriptionsByAccountID(ctx context.Context, accountID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE account_id = $1 ORDER BY created_at;`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	modelSubs := []models.Subscription{}
	for rows.Next() {
		m, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		modelSubs = append(modelSubs, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", rows.Err())
	}

	return mapping.ToDomainSubscriptionSlice(modelSubs), nil
}

func (r *PgxSubscriptionRepository) UpdateSubscriptionFlags(ctx context.Context, subscriptionID string, isNew, isTracked, isActive bool, updatedAt time.Time) error {
	query := `
        UPDATE subscriptions
        SET is_new = $2, is_tracked = $3, is_active = $4, last_updated_at = $5
        WHERE subscription_id = $1;
    `
	cmdTag, err := r.db.Exec(ctx, query, subscriptionID, isNew, isTracked, isActive, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update subscription flags: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
