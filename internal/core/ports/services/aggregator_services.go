package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord is an account as reported by the aggregator.
type AccountRecord struct {
	PlaidAccountID string
	Name           string
	OfficialName   string
	Type           string
	Subtype        string
	Mask           string
}

// TransactionRecord is one transaction as reported by the aggregator. It is
// deliberately flat; the sync service maps it onto domain rows.
type TransactionRecord struct {
	PlaidTxnID     string
	PendingTxnID   *string
	Pending        bool
	Name           string
	MerchantName   *string
	Amount         decimal.Decimal
	Date           time.Time
	AuthorizedDate *time.Time
	CategoryID     *string
	PaymentChannel string
	PaymentMeta    json.RawMessage
	LocationMeta   json.RawMessage
}

// ItemRecord describes a linked item at the aggregator.
type ItemRecord struct {
	PlaidItemID   string
	InstitutionID string
}

// AggregatorSvcFacade is the outbound port to the transaction aggregator.
//
// Implementations must translate the aggregator's credential-expiry error
// into apperrors.ErrReauthRequired so callers can distinguish "relink the
// item" from transient failures.
type AggregatorSvcFacade interface {
	// ExchangePublicToken trades a link-flow public token for a persistent
	// access token and the aggregator's item id.
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken string, plaidItemID string, err error)
	// GetItem fetches item metadata for an access token.
	GetItem(ctx context.Context, accessToken string) (*ItemRecord, error)
	// GetInstitution resolves an institution id to its display name.
	GetInstitution(ctx context.Context, institutionID string) (name string, err error)
	// GetAccounts lists the accounts under an item.
	GetAccounts(ctx context.Context, accessToken string) ([]AccountRecord, error)
	// GetTransactions fetches one page of transactions for the given account
	// and date range. total is the full count for the range so callers can
	// page with offset until they hold everything.
	GetTransactions(ctx context.Context, accessToken, plaidAccountID string, start, end time.Time, offset int) (total int, page []TransactionRecord, err error)
}
