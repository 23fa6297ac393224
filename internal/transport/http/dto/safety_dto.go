package dto

type ReportRequest struct {
	ReportedUserID int64             `json:"reported_user_id"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Evidence       map[string]string `json:"evidence,omitempty"`
}

type ReportResponse struct {
	ReportID string `json:"report_id"`
	Status   string `json:"status"`
}

type CategoryInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []CategoryInfo `json:"categories"`
}

type BlockRequest struct {
	BlockedUserID int64  `json:"blocked_user_id"`
	Reason        string `json:"reason,omitempty"`
}

type UnblockRequest struct {
	BlockedUserID int64 `json:"blocked_user_id"`
}

type BlockedUsersResponse struct {
	BlockedUserIDs []int64 `json:"blocked_user_ids"`
}

type BlockCheckResponse struct {
	Blocked bool `json:"blocked"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
