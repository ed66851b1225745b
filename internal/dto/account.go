package dto

import (
	"time"

	"github.com/finch-money/finch/internal/core/domain"
)

// AccountResponse defines the data returned for a linked account.
type AccountResponse struct {
	AccountID string     `json:"accountID"`
	ItemID    string     `json:"itemID"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	SyncStart *time.Time `json:"syncStart"`
	SyncEnd   *time.Time `json:"syncEnd"`
}

// RenameAccountRequest updates the display name of an account.
type RenameAccountRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		ItemID:    a.ItemID,
		Name:      a.Name,
		Kind:      string(a.Kind),
		SyncStart: a.SyncStart,
		SyncEnd:   a.SyncEnd,
	}
}
