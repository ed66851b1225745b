package dto

import (
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams filters a transaction listing. Dates apply to
// original_date; zero values mean unbounded.
type ListTransactionsParams struct {
	StartDate  time.Time
	EndDate    time.Time
	AccountIDs []string
	Category   string
	Limit      int
	NextToken  *string
}

// TransactionResponse defines the data returned for a transaction, including
// review state.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	Posted        bool            `json:"posted"`
	Name          string          `json:"name"`
	Merchant      *string         `json:"merchant"`
	Date          time.Time       `json:"date"`
	OriginalDate  time.Time       `json:"originalDate"`
	Active        bool            `json:"active"`
	NeedsReview   bool            `json:"needsReview"`
	Category      string          `json:"category,omitempty"`
	SubscriptionID *string        `json:"subscriptionID,omitempty"`
}

// ListTransactionsResponse is a page of transactions plus pagination cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction and its (optional)
// review to a TransactionResponse.
func ToTransactionResponse(t *domain.Transaction, r *domain.Review) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:  t.TransactionID,
		AccountID:      t.AccountID,
		Amount:         t.Amount,
		Posted:         t.Posted,
		Name:           t.Name,
		Merchant:       t.PlaidMerchantName,
		Date:           t.Date,
		OriginalDate:   t.OriginalDate,
		Active:         t.Active,
		NeedsReview:    t.NeedsReview(r),
		SubscriptionID: t.SubscriptionID,
	}
	if r != nil {
		resp.Category = r.Category
	}
	return resp
}
