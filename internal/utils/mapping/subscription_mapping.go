package mapping

import (
	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/models"
)

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	return models.Subscription{
		SubscriptionID: d.SubscriptionID,
		AccountID:      d.AccountID,
		Name:           d.Name,
		Pattern:        d.Pattern,
		IsNew:          d.IsNew,
		IsTracked:      d.IsTracked,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID: m.SubscriptionID,
		AccountID:      m.AccountID,
		Name:           m.Name,
		Pattern:        m.Pattern,
		IsNew:          m.IsNew,
		IsTracked:      m.IsTracked,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSubscriptionSlice converts a slice of model Subscriptions
func ToDomainSubscriptionSlice(ms []models.Subscription) []domain.Subscription {
	ds := make([]domain.Subscription, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSubscription(m)
	}
	return ds
}
