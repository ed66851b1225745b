package domain

import "regexp"

// Subscription is a recurring charge pattern detected for one account.
//
// Pattern is a regular expression synthesized at detection time; Name is the
// matching human-readable template with XXX placeholders for the varying
// tokens. IsNew marks a detection awaiting user confirmation, IsTracked a
// user-confirmed true subscription, IsActive one that is expected to recur.
type Subscription struct {
	SubscriptionID string `json:"subscriptionID"` // Primary Key (UUID)
	AccountID      string `json:"accountID"`      // FK -> plaid_accounts.account_id
	Name           string `json:"name"`
	Pattern        string `json:"pattern"`
	IsNew          bool   `json:"isNew"`
	IsTracked      bool   `json:"isTracked"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// Matches reports whether a transaction name matches this subscription's
// stored pattern. An unparseable pattern never matches.
func (s *Subscription) Matches(name string) bool {
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}
