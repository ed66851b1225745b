package mapping

import (
	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		AccountID:         d.AccountID,
		PlaidTxnID:        d.PlaidTxnID,
		Amount:            d.Amount,
		Posted:            d.Posted,
		Name:              d.Name,
		Date:              d.Date,
		OriginalDate:      d.OriginalDate,
		PlaidMerchantName: d.PlaidMerchantName,
		PaymentChannel:    d.PaymentChannel,
		PlaidCategoryID:   d.PlaidCategoryID,
		PaymentMeta:       d.PaymentMeta,
		LocationMeta:      d.LocationMeta,
		Active:            d.Active,
		SubscriptionID:    d.SubscriptionID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		AccountID:         m.AccountID,
		PlaidTxnID:        m.PlaidTxnID,
		Amount:            m.Amount,
		Posted:            m.Posted,
		Name:              m.Name,
		Date:              m.Date,
		OriginalDate:      m.OriginalDate,
		PlaidMerchantName: m.PlaidMerchantName,
		PaymentChannel:    m.PaymentChannel,
		PlaidCategoryID:   m.PlaidCategoryID,
		PaymentMeta:       m.PaymentMeta,
		LocationMeta:      m.LocationMeta,
		Active:            m.Active,
		SubscriptionID:    m.SubscriptionID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
