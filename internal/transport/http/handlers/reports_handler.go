package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	reportsvc "github.com/ivankudzin/heartbeat/backend/internal/services/reports"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/taxonomy"
	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/heartbeat/backend/internal/transport/http/errors"
)

type ReportsHandler struct {
	service *reportsvc.Service
}

func NewReportsHandler(service *reportsvc.Service) *ReportsHandler {
	return &ReportsHandler{service: service}
}

func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REPORT_SERVICE_UNAVAILABLE", "report service is unavailable")
		return
	}

	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	reportID, err := h.service.Submit(
		r.Context(),
		identity.UserID,
		req.ReportedUserID,
		req.Category,
		req.Description,
		req.Evidence,
	)
	if err != nil {
		switch {
		case errors.Is(err, reportsvc.ErrInvalidArgument):
			writeBadRequest(w, "VALIDATION_ERROR", "reported_user_id must identify another user")
		case errors.Is(err, reportsvc.ErrUnknownCategory):
			writeBadRequest(w, "UNKNOWN_CATEGORY", "report category is not recognized")
		case errors.Is(err, reportsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
		default:
			if tm, ok := reportsvc.IsTooManyReports(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "REPORT_LIMIT_REACHED",
					Message:       "too many reports, try again later",
					RetryAfterSec: tm.RetryAfter(),
				})
				return
			}
			if tu, ok := reportsvc.IsTempUnavailable(err); ok {
				httperrors.Write(w, http.StatusServiceUnavailable, httperrors.RateLimitError{
					Code:          "TEMP_UNAVAILABLE",
					Message:       "report submission is temporarily unavailable",
					RetryAfterSec: tu.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to submit report")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ReportResponse{
		ReportID: reportID,
		Status:   "pending",
	})
}

// Categories is the public report taxonomy, so clients render the same
// category list the server validates against.
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := taxonomy.Categories()
	out := make([]dto.CategoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryInfo{
			ID:          c.ID,
			Label:       c.Label,
			Severity:    string(c.Severity),
			Description: c.Description,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.CategoriesResponse{Categories: out})
}
