package dto

import "github.com/finch-money/finch/internal/core/domain"

// SubscriptionResponse defines the data returned for a subscription.
type SubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionID"`
	AccountID      string `json:"accountID"`
	Name           string `json:"name"`
	Pattern        string `json:"pattern"`
	IsNew          bool   `json:"isNew"`
	IsTracked      bool   `json:"isTracked"`
	IsActive       bool   `json:"isActive"`
}

// UpdateSubscriptionRequest confirms or retires a detected subscription.
// Confirming (tracked or not) always clears the is_new flag.
type UpdateSubscriptionRequest struct {
	IsTracked *bool `json:"isTracked"`
	IsActive  *bool `json:"isActive"`
}

// ToSubscriptionResponse converts a domain.Subscription to its DTO.
func ToSubscriptionResponse(s *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID: s.SubscriptionID,
		AccountID:      s.AccountID,
		Name:           s.Name,
		Pattern:        s.Pattern,
		IsNew:          s.IsNew,
		IsTracked:      s.IsTracked,
		IsActive:       s.IsActive,
	}
}

// ToSubscriptionResponses converts a slice of subscriptions.
func ToSubscriptionResponses(subs []domain.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		out[i] = ToSubscriptionResponse(&subs[i])
	}
	return out
}
