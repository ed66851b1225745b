package dto

import "github.com/finch-money/finch/internal/core/domain"

// CreateItemRequest carries the public token produced by the aggregator's
// link widget.
type CreateItemRequest struct {
	PublicToken string `json:"publicToken" binding:"required"`
}

// ItemResponse defines the data returned for a linked item.
type ItemResponse struct {
	ItemID          string            `json:"itemID"`
	InstitutionName string            `json:"institutionName"`
	Accounts        []AccountResponse `json:"accounts,omitempty"`
}

// EligibleAccount is a remote account that can still be linked under an item.
type EligibleAccount struct {
	PlaidAccountID string `json:"plaidAccountID"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
}

// ItemSummaryResponse lists the remote accounts of an item that are eligible
// for linking.
type ItemSummaryResponse struct {
	ItemID           string            `json:"itemID"`
	InstitutionName  string            `json:"institutionName"`
	EligibleAccounts []EligibleAccount `json:"eligibleAccounts"`
}

// LinkAccountsRequest selects remote accounts to link under an item.
type LinkAccountsRequest struct {
	PlaidAccountIDs []string `json:"plaidAccountIDs" binding:"required,min=1"`
}

// ToItemResponse converts a domain.Item and its accounts to ItemResponse.
func ToItemResponse(item *domain.Item, accounts []domain.Account) ItemResponse {
	resp := ItemResponse{
		ItemID:          item.ItemID,
		InstitutionName: item.InstitutionName,
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, ToAccountResponse(&accounts[i]))
	}
	return resp
}
