package models

// Subscription represents a detected recurring charge pattern on an account.
type Subscription struct {
	SubscriptionID string `json:"subscriptionID"` // Primary Key (UUID)
	AccountID      string `json:"accountID"`
	Name           string `json:"name"`    // Display template, variable runs shown as XXX
	Pattern        string `json:"pattern"` // Anchored regexp matched against transaction names
	IsNew          bool   `json:"isNew"`
	IsTracked      bool   `json:"isTracked"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}
