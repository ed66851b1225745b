package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portsrepo "github.com/finch-money/finch/internal/core/ports/repositories"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/google/uuid"
)

// graceWindowDays is how far back an incremental sync re-fetches before the
// last synced day. Institutions amend recent history (pending charges post,
// names settle, amounts shift) well after first reporting it.
const graceWindowDays = 14

// detectionWindowMonths bounds how much history feeds subscription detection
// after each sync.
const detectionWindowMonths = 6

type syncService struct {
	BaseService
	accountRepo      portsrepo.AccountRepositoryFacade
	itemRepo         portsrepo.ItemRepositoryFacade
	transactionRepo  portsrepo.TransactionRepositoryFacade
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	aggregator       portssvc.AggregatorSvcFacade
	detector         *SubscriptionDetector

	// accountLocks serializes syncs per account. Concurrent passes over the
	// same ledger would race on the reconciliation diff.
	mu           sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewSyncService creates the transaction reconciliation service.
func NewSyncService(
	accountRepo portsrepo.AccountRepositoryFacade,
	itemRepo portsrepo.ItemRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade,
	aggregator portssvc.AggregatorSvcFacade,
	detector *SubscriptionDetector,
) portssvc.SyncSvcFacade {
	return &syncService{
		accountRepo:      accountRepo,
		itemRepo:         itemRepo,
		transactionRepo:  transactionRepo,
		subscriptionRepo: subscriptionRepo,
		aggregator:       aggregator,
		detector:         detector,
		accountLocks:     make(map[string]*sync.Mutex),
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

func (s *syncService) lockAccount(accountID string) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.accountLocks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.accountLocks[accountID] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock
}

func (s *syncService) InitialSync(ctx context.Context, userID, accountID string, startDate time.Time) (*dto.SyncReport, error) {
	account, item, err := s.authorizedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	lock := s.lockAccount(accountID)
	defer lock.Unlock()

	// Re-read under the lock; another request may have won the race.
	account, err = s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Synced() {
		return nil, apperrors.NewAppError(409, "account already synced; use incremental sync", apperrors.ErrConflict)
	}

	// An initial sync is only valid on an empty ledger. Pre-existing rows
	// would be seen as vanished by the reconcile pass and deactivated.
	count, err := s.transactionRepo.CountTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count local transactions: %w", err)
	}
	if count > 0 {
		return nil, apperrors.NewAppError(409, "account already has local transactions; use incremental sync", apperrors.ErrConflict)
	}

	start := domain.DateOnly(startDate)
	end := domain.DateOnly(time.Now().UTC())
	if start.After(end) {
		return nil, apperrors.NewAppError(400, "start date cannot be in the future", apperrors.ErrValidation)
	}

	return s.runSync(ctx, account, item, start, start, end)
}

func (s *syncService) SyncAccount(ctx context.Context, userID, accountID string) (*dto.SyncReport, error) {
	account, item, err := s.authorizedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	lock := s.lockAccount(accountID)
	defer lock.Unlock()

	account, err = s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.incrementalSync(ctx, account, item)
}

func (s *syncService) SyncAllAccounts(ctx context.Context) (map[string]*dto.SyncReport, error) {
	accounts, err := s.accountRepo.FindSyncedAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list synced accounts: %w", err)
	}

	reports := make(map[string]*dto.SyncReport, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		item, err := s.itemRepo.FindItemByID(ctx, account.ItemID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load item for scheduled sync", "account_id", account.AccountID)
			continue
		}

		report, err := func() (*dto.SyncReport, error) {
			lock := s.lockAccount(account.AccountID)
			defer lock.Unlock()
			return s.incrementalSync(ctx, account, item)
		}()
		if err != nil {
			var linkErr *apperrors.LinkUpdateRequiredError
			if errors.As(err, &linkErr) {
				s.LogWarn(ctx, "Account needs credential relink, skipping", "account_id", account.AccountID, "item_id", linkErr.ItemID)
			} else {
				s.LogError(ctx, err, "Scheduled sync failed", "account_id", account.AccountID)
			}
			continue
		}
		reports[account.AccountID] = report
	}
	return reports, nil
}

func (s *syncService) incrementalSync(ctx context.Context, account *domain.Account, item *domain.Item) (*dto.SyncReport, error) {
	if !account.Synced() {
		return nil, apperrors.NewAppError(409, "account has never been synced; run an initial sync with a start date", apperrors.ErrConflict)
	}

	end := domain.DateOnly(time.Now().UTC())
	fetchStart := domain.DateOnly(account.SyncEnd.AddDate(0, 0, -graceWindowDays))
	if fetchStart.Before(*account.SyncStart) {
		fetchStart = domain.DateOnly(*account.SyncStart)
	}

	return s.runSync(ctx, account, item, *account.SyncStart, fetchStart, end)
}

// runSync fetches the remote window, reconciles it against local rows, runs
// subscription detection and commits everything atomically.
func (s *syncService) runSync(ctx context.Context, account *domain.Account, item *domain.Item, syncStart, fetchStart, fetchEnd time.Time) (*dto.SyncReport, error) {
	remote, err := s.fetchAllTransactions(ctx, item, account, fetchStart, fetchEnd)
	if err != nil {
		return nil, err
	}

	local, err := s.transactionRepo.FindTransactionsInWindow(ctx, account.AccountID, fetchStart, fetchEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load local transactions: %w", err)
	}

	now := time.Now().UTC()
	added, updated, report := reconcileWindow(account.AccountID, local, remote, now)

	// Detection sees recent history with this pass's changes overlaid, so a
	// brand-new third charge can complete a group in the same sync.
	detectionStart := domain.DateOnly(now.AddDate(0, -detectionWindowMonths, 0))
	history, err := s.transactionRepo.FindTransactionsSince(ctx, account.AccountID, detectionStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load detection history: %w", err)
	}
	overlay := overlayTransactions(history, added, updated)

	existingSubs, err := s.subscriptionRepo.FindSubscriptionsByAccountID(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	newSubs, links := s.detector.Detect(account.AccountID, overlay, existingSubs, now)
	report.NewSubscriptions = len(newSubs)

	// Links that land on rows already in this change set are applied in
	// place; the rest go through as standalone link updates.
	added, updated, standaloneLinks := applySubscriptionLinks(added, updated, links)

	cs := domain.SyncChangeSet{
		AccountID:         account.AccountID,
		SyncStart:         syncStart,
		SyncEnd:           fetchEnd,
		Added:             added,
		Updated:           updated,
		NewSubscriptions:  newSubs,
		SubscriptionLinks: standaloneLinks,
	}
	if err := s.transactionRepo.ApplySyncChanges(ctx, cs); err != nil {
		return nil, fmt.Errorf("failed to persist sync changes: %w", err)
	}

	s.LogInfo(ctx, "Sync completed", "account_id", account.AccountID, "summary", report.Summary())
	return report, nil
}

// fetchAllTransactions pages through the remote feed until it holds the full
// window. A credential failure is wrapped with the owning item so callers can
// route the user through relinking.
func (s *syncService) fetchAllTransactions(ctx context.Context, item *domain.Item, account *domain.Account, start, end time.Time) ([]portssvc.TransactionRecord, error) {
	var all []portssvc.TransactionRecord
	for {
		total, page, err := s.aggregator.GetTransactions(ctx, item.AccessToken, account.PlaidAccountID, start, end, len(all))
		if err != nil {
			if errors.Is(err, apperrors.ErrReauthRequired) {
				return nil, &apperrors.LinkUpdateRequiredError{ItemID: item.ItemID}
			}
			return nil, fmt.Errorf("failed to fetch transactions: %w", err)
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

// comparedFields are the remote fields whose changes are tracked per sync.
const (
	fieldName     = "name"
	fieldDate     = "date"
	fieldAmount   = "amount"
	fieldPosted   = "posted"
	fieldMerchant = "merchant"
	fieldActive   = "active"
)

// reconcileWindow diffs the remote feed against local rows and produces the
// rows to insert and update, plus the pass report.
//
// Matching is by external id first, then by the back-link a posting
// transaction carries to its pending predecessor; that second match rewrites
// the local row's external id in place so the ledger never holds both copies.
// Any field difference copies the full remote state onto the row, but only
// amount and active changes mark the row as needing re-review: a settled name
// or a nudged date doesn't invalidate the user's judgment, a changed charge
// does.
func reconcileWindow(accountID string, local []domain.Transaction, remote []portssvc.TransactionRecord, now time.Time) ([]domain.Transaction, []domain.Transaction, *dto.SyncReport) {
	report := dto.NewSyncReport()

	byPlaidID := make(map[string]*domain.Transaction, len(local))
	for i := range local {
		byPlaidID[local[i].PlaidTxnID] = &local[i]
	}
	touched := make(map[string]bool, len(remote))
	dirty := make(map[string]bool)

	var added []domain.Transaction

	for _, rec := range remote {
		match, ok := byPlaidID[rec.PlaidTxnID]
		if !ok && rec.PendingTxnID != nil {
			if prev, found := byPlaidID[*rec.PendingTxnID]; found {
				// Pending row posted under a new external id.
				match, ok = prev, true
				delete(byPlaidID, match.PlaidTxnID)
				match.PlaidTxnID = rec.PlaidTxnID
				byPlaidID[rec.PlaidTxnID] = match
				dirty[match.TransactionID] = true
				report.PostedTransitions++
			}
		}

		if !ok {
			txn := newTransactionFromRecord(accountID, rec, now)
			added = append(added, txn)
			report.Added++
			continue
		}

		touched[match.TransactionID] = true
		if diffTransaction(match, rec, now, dirty, report) {
			report.Updated++
		} else if !dirty[match.TransactionID] {
			report.Unchanged++
		}
	}

	// Active local rows the feed no longer reports get deactivated. A posted
	// row vanishing means the institution rewrote history; a pending one
	// usually just evaporated before settling.
	for i := range local {
		row := &local[i]
		if touched[row.TransactionID] || !row.Active {
			continue
		}
		if dirty[row.TransactionID] {
			continue
		}
		row.Active = false
		row.LastUpdatedAt = now
		dirty[row.TransactionID] = true
		report.FieldChanges[fieldActive]++
		report.NeedsReReview++
		if row.Posted {
			report.MissingPosted++
		} else {
			report.MissingPending++
		}
	}

	var updated []domain.Transaction
	for i := range local {
		if dirty[local[i].TransactionID] {
			updated = append(updated, local[i])
		}
	}

	return added, updated, report
}

// diffTransaction compares one matched row against its remote record and, on
// any difference, copies the full remote state onto the row. Returns whether
// anything changed.
func diffTransaction(row *domain.Transaction, rec portssvc.TransactionRecord, now time.Time, dirty map[string]bool, report *dto.SyncReport) bool {
	posted := !rec.Pending

	changes := map[string]bool{
		fieldName:     row.Name != rec.Name,
		fieldDate:     !domain.SameDate(row.Date, rec.Date),
		fieldAmount:   !row.Amount.Equal(rec.Amount),
		fieldPosted:   row.Posted != posted,
		fieldMerchant: !equalStringPtr(row.PlaidMerchantName, rec.MerchantName),
		fieldActive:   !row.Active,
	}

	changed := false
	for field, isChanged := range changes {
		if isChanged {
			changed = true
			report.FieldChanges[field]++
		}
	}
	if !changed {
		return false
	}

	row.Name = rec.Name
	row.Date = domain.DateOnly(rec.Date)
	row.Amount = rec.Amount
	row.Posted = posted
	row.PlaidMerchantName = rec.MerchantName
	row.PaymentChannel = rec.PaymentChannel
	row.PlaidCategoryID = rec.CategoryID
	row.PaymentMeta = rec.PaymentMeta
	row.LocationMeta = rec.LocationMeta
	row.Active = true
	dirty[row.TransactionID] = true

	// Cosmetic settles keep the old review valid; money or liveness changes
	// put the row back in the review queue.
	if changes[fieldAmount] || changes[fieldActive] {
		row.LastUpdatedAt = now
		report.NeedsReReview++
	}
	return true
}

func newTransactionFromRecord(accountID string, rec portssvc.TransactionRecord, now time.Time) domain.Transaction {
	date := domain.DateOnly(rec.Date)
	return domain.Transaction{
		TransactionID:     uuid.NewString(),
		AccountID:         accountID,
		PlaidTxnID:        rec.PlaidTxnID,
		Amount:            rec.Amount,
		Posted:            !rec.Pending,
		Name:              rec.Name,
		Date:              date,
		OriginalDate:      date,
		PlaidMerchantName: rec.MerchantName,
		PaymentChannel:    rec.PaymentChannel,
		PlaidCategoryID:   rec.CategoryID,
		PaymentMeta:       rec.PaymentMeta,
		LocationMeta:      rec.LocationMeta,
		Active:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// overlayTransactions merges this pass's rows over persisted history.
func overlayTransactions(history, added, updated []domain.Transaction) []domain.Transaction {
	byID := make(map[string]domain.Transaction, len(history)+len(added))
	for _, t := range history {
		byID[t.TransactionID] = t
	}
	for _, t := range updated {
		byID[t.TransactionID] = t
	}
	for _, t := range added {
		byID[t.TransactionID] = t
	}

	merged := make([]domain.Transaction, 0, len(byID))
	for _, t := range byID {
		merged = append(merged, t)
	}
	return merged
}

// applySubscriptionLinks sets subscription ids on rows already in the change
// set and returns links for rows that are not.
func applySubscriptionLinks(added, updated []domain.Transaction, links map[string]string) ([]domain.Transaction, []domain.Transaction, map[string]string) {
	standalone := make(map[string]string, len(links))
	for txnID, subID := range links {
		standalone[txnID] = subID
	}

	for i := range added {
		if subID, ok := standalone[added[i].TransactionID]; ok {
			sid := subID
			added[i].SubscriptionID = &sid
			delete(standalone, added[i].TransactionID)
		}
	}
	for i := range updated {
		if subID, ok := standalone[updated[i].TransactionID]; ok {
			sid := subID
			updated[i].SubscriptionID = &sid
			delete(standalone, updated[i].TransactionID)
		}
	}
	return added, updated, standalone
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *syncService) authorizedAccount(ctx context.Context, userID, accountID string) (*domain.Account, *domain.Item, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.itemRepo.FindItemByID(ctx, account.ItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load owning item: %w", err)
	}
	if item.UserID != userID {
		return nil, nil, apperrors.NewAppError(403, "account belongs to another user", apperrors.ErrForbidden)
	}
	return account, item, nil
}
