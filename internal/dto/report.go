package dto

import "time"

// ReportParams bounds a spending report. Dates apply to original_date.
type ReportParams struct {
	StartDate        time.Time
	EndDate          time.Time
	AccountIDs       []string
	IncludeTransfers bool
}
