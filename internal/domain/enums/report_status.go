package enums

import "strings"

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
	ReportStatusActionTaken ReportStatus = "action_taken"
)

func ParseReportStatus(raw string) (ReportStatus, bool) {
	status := ReportStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved,
		ReportStatusDismissed, ReportStatusActionTaken:
		return status, true
	default:
		return "", false
	}
}

// Terminal reports a status no review can move the report out of.
func (s ReportStatus) Terminal() bool {
	switch s {
	case ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed, ReportStatusActionTaken:
		return true
	default:
		return false
	}
}
