package mapping

import (
	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		ItemID:         d.ItemID,
		PlaidAccountID: d.PlaidAccountID,
		Name:           d.Name,
		Kind:           models.AccountKind(d.Kind),
		SyncStart:      d.SyncStart,
		SyncEnd:        d.SyncEnd,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		ItemID:         m.ItemID,
		PlaidAccountID: m.PlaidAccountID,
		Name:           m.Name,
		Kind:           domain.AccountKind(m.Kind),
		SyncStart:      m.SyncStart,
		SyncEnd:        m.SyncEnd,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
