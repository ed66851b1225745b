package mapping

import (
	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/models"
)

// ToModelReview converts a domain Review to a model Review
func ToModelReview(d domain.Review) models.Review {
	return models.Review{
		ReviewID:           d.ReviewID,
		TransactionID:      d.TransactionID,
		Reimbursement:      d.Reimbursement,
		OtherReimbursement: d.OtherReimbursement,
		Category:           d.Category,
		Notes:              d.Notes,
		ReviewedAmount:     d.ReviewedAmount,
		ReviewedPosted:     d.ReviewedPosted,
		ReviewedName:       d.ReviewedName,
		ReviewedDate:       d.ReviewedDate,
		ReviewedMerchant:   d.ReviewedMerchant,
		GroupID:            d.GroupID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReview converts a model Review to a domain Review
func ToDomainReview(m models.Review) domain.Review {
	return domain.Review{
		ReviewID:           m.ReviewID,
		TransactionID:      m.TransactionID,
		Reimbursement:      m.Reimbursement,
		OtherReimbursement: m.OtherReimbursement,
		Category:           m.Category,
		Notes:              m.Notes,
		ReviewedAmount:     m.ReviewedAmount,
		ReviewedPosted:     m.ReviewedPosted,
		ReviewedName:       m.ReviewedName,
		ReviewedDate:       m.ReviewedDate,
		ReviewedMerchant:   m.ReviewedMerchant,
		GroupID:            m.GroupID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionGroup converts a domain TransactionGroup to its model
func ToModelTransactionGroup(d domain.TransactionGroup) models.TransactionGroup {
	return models.TransactionGroup{
		GroupID:        d.GroupID,
		LeaderReviewID: d.LeaderReviewID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionGroup converts a model TransactionGroup to its domain form
func ToDomainTransactionGroup(m models.TransactionGroup) domain.TransactionGroup {
	return domain.TransactionGroup{
		GroupID:        m.GroupID,
		LeaderReviewID: m.LeaderReviewID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
