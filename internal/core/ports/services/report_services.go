package services

import (
	"context"

	"github.com/finch-money/finch/internal/core/domain"
	"github.com/finch-money/finch/internal/dto"
)

// ReportSvcFacade defines categorized spending reports.
type ReportSvcFacade interface {
	// AccountReport aggregates one account's reviewed spending.
	AccountReport(ctx context.Context, userID, accountID string, params dto.ReportParams) (*domain.Report, error)
	// UserReport aggregates across all of the user's accounts.
	UserReport(ctx context.Context, userID string, params dto.ReportParams) (*domain.Report, error)
}
