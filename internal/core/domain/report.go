package domain

import "github.com/shopspring/decimal"

// Report aggregates reviewed spending over a set of transactions.
//
// Transactions without a review contribute only to the unreviewed bucket and
// are excluded from every categorized map. "Share" is the user's own share:
// amount minus both reimbursement fields.
type Report struct {
	AllNet             decimal.Decimal `json:"allNet"`
	ShareNet           decimal.Decimal `json:"shareNet"`
	ReimbursedNet      decimal.Decimal `json:"reimbursedNet"`
	OtherReimbursedNet decimal.Decimal `json:"otherReimbursedNet"`
	UnreviewedNet      decimal.Decimal `json:"unreviewedNet"`
	UnreviewedCount    int             `json:"unreviewedCount"`

	// Leaf categories and parent categories actually present, sorted.
	Categories []string `json:"categories"`
	Parents    []string `json:"parents"`

	CategoryAll             map[string]decimal.Decimal `json:"categoryAll"`
	CategoryShare           map[string]decimal.Decimal `json:"categoryShare"`
	CategoryReimbursed      map[string]decimal.Decimal `json:"categoryReimbursed"`
	CategoryOtherReimbursed map[string]decimal.Decimal `json:"categoryOtherReimbursed"`
	ParentAll               map[string]decimal.Decimal `json:"parentAll"`
	ParentShare             map[string]decimal.Decimal `json:"parentShare"`
	ParentReimbursed        map[string]decimal.Decimal `json:"parentReimbursed"`
	ParentOtherReimbursed   map[string]decimal.Decimal `json:"parentOtherReimbursed"`
}

// NewReport returns an empty report with allocated maps.
func NewReport() *Report {
	return &Report{
		CategoryAll:             make(map[string]decimal.Decimal),
		CategoryShare:           make(map[string]decimal.Decimal),
		CategoryReimbursed:      make(map[string]decimal.Decimal),
		CategoryOtherReimbursed: make(map[string]decimal.Decimal),
		ParentAll:               make(map[string]decimal.Decimal),
		ParentShare:             make(map[string]decimal.Decimal),
		ParentReimbursed:        make(map[string]decimal.Decimal),
		ParentOtherReimbursed:   make(map[string]decimal.Decimal),
	}
}
