package dto

type StatsResponse struct {
	TotalReports      int64            `json:"total_reports"`
	PendingReports    int64            `json:"pending_reports"`
	ResolvedReports   int64            `json:"resolved_reports"`
	TotalBlocks       int64            `json:"total_blocks"`
	ReportsByCategory map[string]int64 `json:"reports_by_category"`
	ReportsBySeverity map[string]int64 `json:"reports_by_severity"`
}
