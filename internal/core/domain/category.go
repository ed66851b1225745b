package domain

import "sort"

// Categories is the two-level category tree: parent -> leaf categories.
// Every leaf belongs to exactly one parent; reviews always assign a leaf.
var Categories = map[string][]string{
	"Income":        {"Salary", "Interest", "Reimbursement", "Other Income"},
	"Housing":       {"Rent", "Utilities", "Internet", "Home Supplies"},
	"Food":          {"Groceries", "Coffee", "Lunch", "Dinner Takeout", "Social Dining", "Fancy Dinner", "Other Dining"},
	"Transport":     {"Transit", "Ride Share", "Car", "Other Transport"},
	"Shopping":      {"Clothing", "Electronics", "Hobbies", "Other Shopping"},
	"Health":        {"Medical", "Fitness", "Personal Care"},
	"Entertainment": {"Streaming", "Events", "Games", "Other Entertainment"},
	"Travel":        {"Vacation", "Visiting Home", "Conference Travel"},
	"Giving":        {"Charity", "Gifts", "Donation"},
	"Finance":       {"Transfer", "Fees", "Taxes", "Other Finance"},
}

// CategoryTransfer marks money moving between the user's own accounts; these
// entries are excluded from spending reports unless explicitly included.
const CategoryTransfer = "Transfer"

// CategoryNone is the reserved empty category used when acknowledging a
// deleted (deactivated) transaction.
const CategoryNone = ""

var leafToParent = func() map[string]string {
	m := make(map[string]string)
	for parent, leaves := range Categories {
		for _, leaf := range leaves {
			m[leaf] = parent
		}
	}
	return m
}()

// IsLeafCategory reports whether name is a valid leaf category.
func IsLeafCategory(name string) bool {
	_, ok := leafToParent[name]
	return ok
}

// ParentCategory returns the parent of a leaf category, or "" if the leaf is
// unknown (including the reserved empty category).
func ParentCategory(leaf string) string {
	return leafToParent[leaf]
}

// LeafCategories returns all leaf categories, sorted.
func LeafCategories() []string {
	leaves := make([]string, 0, len(leafToParent))
	for leaf := range leafToParent {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)
	return leaves
}
