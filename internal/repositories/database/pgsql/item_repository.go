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

type PgxItemRepository struct {
	db *pgxpool.Pool
}

func newPgxItemRepository(db *pgxpool.Pool) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{db: db}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	modelItem := mapping.ToModelItem(item)
	query := `
        INSERT INTO plaid_items (item_id, user_id, access_token, plaid_item_id, institution_name, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.db.Exec(ctx, query,
		modelItem.ItemID,
		modelItem.UserID,
		modelItem.AccessToken,
		modelItem.PlaidItemID,
		modelItem.InstitutionName,
		modelItem.CreatedAt,
		modelItem.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("item already linked: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

func (r *PgxItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
		SELECT item_id, user_id, access_token, plaid_item_id, institution_name, created_at, last_updated_at
		FROM plaid_items
		WHERE item_id = $1;
	`
	var modelItem models.Item
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&modelItem.ItemID,
		&modelItem.UserID,
		&modelItem.AccessToken,
		&modelItem.PlaidItemID,
		&modelItem.InstitutionName,
		&modelItem.CreatedAt,
		&modelItem.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID %s: %w", itemID, err)
	}

	domainItem := mapping.ToDomainItem(modelItem)
	return &domainItem, nil
}

func (r *PgxItemRepository) FindItemsByUserID(ctx context.Context, userID string) ([]domain.Item, error) {
	query := `
		SELECT item_id, user_id, access_token, plaid_item_id, institution_name, created_at, last_updated_at
		FROM plaid_items
		WHERE user_id = $1
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var modelItem models.Item
		err := rows.Scan(
			&modelItem.ItemID,
			&modelItem.UserID,
			&modelItem.AccessToken,
			&modelItem.PlaidItemID,
			&modelItem.InstitutionName,
			&modelItem.CreatedAt,
			&modelItem.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, mapping.ToDomainItem(modelItem))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", rows.Err())
	}

	return items, nil
}
