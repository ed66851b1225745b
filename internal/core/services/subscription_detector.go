package services

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// monthlyGraceDays is how far back the newest charge of a candidate group may
// be from today and still count as a live monthly subscription. 33 covers the
// longest month plus a couple of days of posting lag.
const monthlyGraceDays = 33

// minGroupSize is the minimum number of similar charges required before a
// synthesized group is believed to be a subscription.
const minGroupSize = 3

// knownPattern is a curated merchant pattern loaded from the patterns file.
// Charges matching a known pattern are accepted without the group-size or
// monthly-cadence checks.
type knownPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// SubscriptionDetector finds recurring charges by clustering transaction
// names that differ only in variable runs (dates, invoice numbers).
type SubscriptionDetector struct {
	known []knownPattern
}

// NewSubscriptionDetector builds a detector, optionally seeded with curated
// patterns from a YAML file. An empty path means heuristics only.
func NewSubscriptionDetector(patternsPath string) (*SubscriptionDetector, error) {
	d := &SubscriptionDetector{}
	if patternsPath == "" {
		return d, nil
	}

	raw, err := os.ReadFile(patternsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription patterns file: %w", err)
	}

	var file struct {
		Patterns []knownPattern `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse subscription patterns file: %w", err)
	}

	for _, p := range file.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid known pattern %q: %w", p.Name, err)
		}
		p.re = re
		d.known = append(d.known, p)
	}
	return d, nil
}

// candidateGroup is a cluster of charges believed to come from one merchant.
type candidateGroup struct {
	name    string // display template, variable runs shown as XXX
	pattern string
	re      *regexp.Regexp
	members []domain.Transaction
	known   bool
}

// Detect runs subscription detection over the given transactions.
//
// It returns newly synthesized subscriptions and links from transaction id to
// subscription id, covering both members of new groups and charges that match
// subscriptions the account already has. Transactions already carrying a
// subscription id are never reassigned.
func (d *SubscriptionDetector) Detect(accountID string, txns []domain.Transaction, existing []domain.Subscription, now time.Time) ([]domain.Subscription, map[string]string) {
	links := make(map[string]string)

	// Compile the account's existing patterns once. Unparseable patterns
	// never match rather than failing the whole pass.
	var existingSubs []compiledSub
	for _, sub := range existing {
		if !sub.IsActive {
			continue
		}
		re, err := regexp.Compile(sub.Pattern)
		if err != nil {
			continue
		}
		existingSubs = append(existingSubs, compiledSub{id: sub.SubscriptionID, re: re})
	}

	// Newest first: the freshest charge anchors each group.
	sorted := make([]domain.Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	var groups []*candidateGroup
	for _, p := range d.known {
		groups = append(groups, &candidateGroup{name: p.Name, pattern: p.Pattern, re: p.re, known: true})
	}

	var singletons []domain.Transaction

	for _, txn := range sorted {
		if !txn.Active || txn.SubscriptionID != nil {
			continue
		}

		// Already-known subscriptions win over forming new groups.
		if matched := matchExisting(existingSubs, txn.Name); matched != "" {
			links[txn.TransactionID] = matched
			continue
		}

		if g := matchGroup(groups, txn.Name); g != nil {
			g.members = append(g.members, txn)
			continue
		}

		// Try to pair with an earlier unmatched charge of similar shape.
		paired := false
		for i, single := range singletons {
			pattern, template, ok := similarityPattern(single.Name, txn.Name)
			if !ok {
				continue
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			groups = append(groups, &candidateGroup{
				name:    template,
				pattern: pattern,
				re:      re,
				members: []domain.Transaction{single, txn},
			})
			singletons = append(singletons[:i], singletons[i+1:]...)
			paired = true
			break
		}
		if !paired {
			singletons = append(singletons, txn)
		}
	}

	var newSubs []domain.Subscription
	nowUTC := now.UTC()
	for _, g := range groups {
		if len(g.members) == 0 {
			continue
		}
		if !g.known {
			if len(g.members) < minGroupSize {
				continue
			}
			if !strictlyMonthly(g.members, nowUTC) {
				continue
			}
		}

		sub := domain.Subscription{
			SubscriptionID: uuid.NewString(),
			AccountID:      accountID,
			Name:           g.name,
			Pattern:        g.pattern,
			IsNew:          true,
			IsTracked:      false,
			IsActive:       true,
			AuditFields: domain.AuditFields{
				CreatedAt:     nowUTC,
				LastUpdatedAt: nowUTC,
			},
		}
		newSubs = append(newSubs, sub)
		for _, member := range g.members {
			links[member.TransactionID] = sub.SubscriptionID
		}
	}

	return newSubs, links
}

type compiledSub struct {
	id string
	re *regexp.Regexp
}

func matchExisting(subs []compiledSub, name string) string {
	for _, sub := range subs {
		if sub.re.MatchString(name) {
			return sub.id
		}
	}
	return ""
}

func matchGroup(groups []*candidateGroup, name string) *candidateGroup {
	for _, g := range groups {
		if g.re.MatchString(name) {
			return g
		}
	}
	return nil
}

// similarityPattern compares two charge names token by token. Names qualify
// when they have the same token count and the equal tokens strictly outnumber
// the differing ones. Equal tokens are kept verbatim; differing positions
// become wildcard runs.
func similarityPattern(a, b string) (pattern string, template string, ok bool) {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensA) != len(tokensB) {
		return "", "", false
	}

	matches := 0
	patternParts := make([]string, len(tokensA))
	templateParts := make([]string, len(tokensA))
	for i := range tokensA {
		if tokensA[i] == tokensB[i] {
			matches++
			patternParts[i] = regexp.QuoteMeta(tokensA[i])
			templateParts[i] = tokensA[i]
		} else {
			patternParts[i] = `\S+`
			templateParts[i] = "XXX"
		}
	}

	mismatches := len(tokensA) - matches
	if matches <= mismatches {
		return "", "", false
	}

	return `^` + strings.Join(patternParts, `\s+`) + `$`, strings.Join(templateParts, " "), true
}

// strictlyMonthly reports whether the charges (newest first) land in exactly
// consecutive calendar months with the newest one still fresh.
func strictlyMonthly(members []domain.Transaction, now time.Time) bool {
	if len(members) == 0 {
		return false
	}
	if now.Sub(members[0].Date) > monthlyGraceDays*24*time.Hour {
		return false
	}
	for i := 1; i < len(members); i++ {
		newer := members[i-1].Date
		older := members[i].Date
		wantMonth := newer.Month() - 1
		if wantMonth == 0 {
			wantMonth = 12
		}
		if older.Month() != wantMonth {
			return false
		}
	}
	return true
}
