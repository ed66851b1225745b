package models

// Item represents a linked institution login (one access token).
type Item struct {
	ItemID          string `json:"itemID"` // Primary Key (UUID)
	UserID          string `json:"userID"`
	AccessToken     string `json:"-"` // Aggregator credential, never serialized
	PlaidItemID     string `json:"plaidItemID"`
	InstitutionName string `json:"institutionName"`
	AuditFields
}
