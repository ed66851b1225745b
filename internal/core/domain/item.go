package domain

// Item is one external credential/login at a financial institution. A single
// item groups one or more linkable accounts.
type Item struct {
	ItemID          string `json:"itemID"`  // Primary Key (UUID)
	UserID          string `json:"userID"`  // FK -> users.user_id
	AccessToken     string `json:"-"`       // Aggregator access token; never serialized
	PlaidItemID     string `json:"plaidItemID"`
	InstitutionName string `json:"institutionName"`
	AuditFields
}
