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

type PgxAccountRepository struct {
	db *pgxpool.Pool
}

func newPgxAccountRepository(db *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{db: db}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, item_id, plaid_account_id, name, kind, sync_start, sync_end, created_at, last_updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.ItemID,
		&m.PlaidAccountID,
		&m.Name,
		&m.Kind,
		&m.SyncStart,
		&m.SyncEnd,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
        INSERT INTO plaid_accounts (account_id, item_id, plaid_account_id, name, kind, sync_start, sync_end, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.ItemID,
		m.PlaidAccountID,
		m.Name,
		m.Kind,
		m.SyncStart,
		m.SyncEnd,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account already linked: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) RenameAccount(ctx context.Context, accountID, name string, updatedAt time.Time) error {
	query := `
        UPDATE plaid_accounts
        SET name = $1, last_updated_at = $2
        WHERE account_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, name, updatedAt, accountID)
	if err != nil {
		return fmt.Errorf("failed to rename account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM plaid_accounts WHERE account_id = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountsByItemID(ctx context.Context, itemID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM plaid_accounts WHERE item_id = $1 ORDER BY created_at;`
	return r.queryAccounts(ctx, query, itemID)
}

func (r *PgxAccountRepository) FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT a.account_id, a.item_id, a.plaid_account_id, a.name, a.kind, a.sync_start, a.sync_end, a.created_at, a.last_updated_at
		FROM plaid_accounts a
		JOIN plaid_items i ON i.item_id = a.item_id
		WHERE i.user_id = $1
		ORDER BY a.created_at;
	`
	return r.queryAccounts(ctx, query, userID)
}

func (r *PgxAccountRepository) FindSyncedAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM plaid_accounts WHERE sync_start IS NOT NULL ORDER BY created_at;`
	return r.queryAccounts(ctx, query)
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	modelAccounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		modelAccounts = append(modelAccounts, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return mapping.ToDomainAccountSlice(modelAccounts), nil
}
