package dto

import "time"

type ReportSummary struct {
	ID             string     `json:"id"`
	ReporterUserID int64      `json:"reporter_user_id"`
	ReportedUserID int64      `json:"reported_user_id"`
	Category       string     `json:"category"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

type ReportDetail struct {
	ReportSummary
	Description   string            `json:"description"`
	Evidence      map[string]string `json:"evidence,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
	AppliedAction *string           `json:"applied_action,omitempty"`
	ActionReason  *string           `json:"action_reason,omitempty"`
}

type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
}

type ReviewRequest struct {
	Status string `json:"status"`
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

type SafetyStateResponse struct {
	UserID           int64      `json:"user_id"`
	AccountStatus    string     `json:"account_status"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
	WarningCount     int        `json:"warning_count"`
	ProfileHidden    bool       `json:"profile_hidden"`
	LastAction       *string    `json:"last_action,omitempty"`
	LastActionReason *string    `json:"last_action_reason,omitempty"`
	LastActionAt     *time.Time `json:"last_action_at,omitempty"`
}

type ReinstateRequest struct {
	Reason string `json:"reason,omitempty"`
}
