package services_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detectNow = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func chargeNamed(id, name string, date time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		AccountID:     "acct-1",
		Name:          name,
		Date:          date,
		Active:        true,
	}
}

func newDetector(t *testing.T) *services.SubscriptionDetector {
	t.Helper()
	d, err := services.NewSubscriptionDetector("")
	require.NoError(t, err)
	return d
}

func TestDetectThreeMonthlyChargesFormSubscription(t *testing.T) {
	d := newDetector(t)
	txns := []domain.Transaction{
		chargeNamed("t-1", "SPOTIFY USA 8837", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "SPOTIFY USA 9921", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "SPOTIFY USA 1204", time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	require.Len(t, subs, 1)
	sub := subs[0]
	assert.Equal(t, "SPOTIFY USA XXX", sub.Name)
	assert.Equal(t, "acct-1", sub.AccountID)
	assert.True(t, sub.IsNew)
	assert.False(t, sub.IsTracked)
	assert.True(t, sub.IsActive)

	require.Len(t, links, 3)
	for _, id := range []string{"t-1", "t-2", "t-3"} {
		assert.Equal(t, sub.SubscriptionID, links[id])
	}
}

func TestDetectTwoChargesAreNotEnough(t *testing.T) {
	d := newDetector(t)
	txns := []domain.Transaction{
		chargeNamed("t-1", "SPOTIFY USA 8837", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "SPOTIFY USA 9921", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	assert.Empty(t, subs)
	assert.Empty(t, links)
}

func TestDetectWeeklyCadenceRejected(t *testing.T) {
	d := newDetector(t)
	txns := []domain.Transaction{
		chargeNamed("t-1", "GYM VISIT FEE 03", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "GYM VISIT FEE 02", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "GYM VISIT FEE 01", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	assert.Empty(t, subs)
	assert.Empty(t, links)
}

func TestDetectLapsedGroupRejected(t *testing.T) {
	d := newDetector(t)
	// Monthly cadence, but the newest charge is months old.
	txns := []domain.Transaction{
		chargeNamed("t-1", "SPOTIFY USA 8837", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "SPOTIFY USA 9921", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "SPOTIFY USA 1204", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, _ := d.Detect("acct-1", txns, nil, detectNow)

	assert.Empty(t, subs)
}

func TestDetectDissimilarNamesNeverPair(t *testing.T) {
	d := newDetector(t)
	txns := []domain.Transaction{
		chargeNamed("t-1", "COFFEE SHOP 12", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "AIRLINE TICKET CONFIRMATION", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "GROCERY RUN 99", time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	assert.Empty(t, subs)
	assert.Empty(t, links)
}

func TestDetectHalfMatchingNamesNeverPair(t *testing.T) {
	d := newDetector(t)
	// Two of four tokens match in every pair. Matching tokens must strictly
	// outnumber mismatches, so distinct merchants behind the same processor
	// prefix stay apart even on a monthly cadence.
	txns := []domain.Transaction{
		chargeNamed("t-1", "SQ PAY FLOWERCO 111", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-2", "SQ PAY BOOKSTORE 222", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "SQ PAY BARBERSHOP 333", time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	assert.Empty(t, subs)
	assert.Empty(t, links)
}

func TestDetectExistingSubscriptionWinsOverNewGroups(t *testing.T) {
	d := newDetector(t)
	existing := []domain.Subscription{{
		SubscriptionID: "sub-existing",
		AccountID:      "acct-1",
		Name:           "SPOTIFY USA XXX",
		Pattern:        `^SPOTIFY\s+USA\s+\S+$`,
		IsActive:       true,
	}}
	alreadyLinked := chargeNamed("t-linked", "SPOTIFY USA 5555", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC))
	subID := "sub-existing"
	alreadyLinked.SubscriptionID = &subID

	txns := []domain.Transaction{
		chargeNamed("t-new", "SPOTIFY USA 8837", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		alreadyLinked,
	}

	subs, links := d.Detect("acct-1", txns, existing, detectNow)

	assert.Empty(t, subs)
	assert.Equal(t, map[string]string{"t-new": "sub-existing"}, links)
}

func TestDetectRetiredSubscriptionDoesNotMatch(t *testing.T) {
	d := newDetector(t)
	existing := []domain.Subscription{{
		SubscriptionID: "sub-retired",
		Pattern:        `^SPOTIFY\s+USA\s+\S+$`,
		IsActive:       false,
	}}
	txns := []domain.Transaction{
		chargeNamed("t-1", "SPOTIFY USA 8837", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
	}

	_, links := d.Detect("acct-1", txns, existing, detectNow)

	assert.Empty(t, links)
}

func TestDetectKnownPatternsSkipHeuristicChecks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := "patterns:\n  - name: Netflix\n    pattern: \"(?i)^netflix\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	d, err := services.NewSubscriptionDetector(path)
	require.NoError(t, err)

	// A single stale charge: fails both the group-size and cadence checks, but
	// curated patterns are exempt from both.
	txns := []domain.Transaction{
		chargeNamed("t-1", "NETFLIX.COM", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}

	subs, links := d.Detect("acct-1", txns, nil, detectNow)

	require.Len(t, subs, 1)
	assert.Equal(t, "Netflix", subs[0].Name)
	assert.Equal(t, subs[0].SubscriptionID, links["t-1"])
}

func TestDetectIgnoresInactiveRows(t *testing.T) {
	d := newDetector(t)
	inactive := chargeNamed("t-1", "SPOTIFY USA 8837", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	inactive.Active = false
	txns := []domain.Transaction{
		inactive,
		chargeNamed("t-2", "SPOTIFY USA 9921", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
		chargeNamed("t-3", "SPOTIFY USA 1204", time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)),
	}

	subs, _ := d.Detect("acct-1", txns, nil, detectNow)

	// Without the deactivated June charge only two remain, which is not enough.
	assert.Empty(t, subs)
}
