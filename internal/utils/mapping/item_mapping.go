package mapping

import (
	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/models"
)

// ToModelItem converts a domain Item to a model Item
func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		ItemID:          d.ItemID,
		UserID:          d.UserID,
		AccessToken:     d.AccessToken,
		PlaidItemID:     d.PlaidItemID,
		InstitutionName: d.InstitutionName,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:          m.ItemID,
		UserID:          m.UserID,
		AccessToken:     m.AccessToken,
		PlaidItemID:     m.PlaidItemID,
		InstitutionName: m.InstitutionName,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
