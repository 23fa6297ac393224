package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	modsvc "github.com/ivankudzin/heartbeat/backend/internal/services/moderation"
	reportsvc "github.com/ivankudzin/heartbeat/backend/internal/services/reports"

	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/heartbeat/backend/internal/transport/http/errors"
)

type AdminReportsHandler struct {
	reports    *reportsvc.Service
	moderation *modsvc.Service
}

func NewAdminReportsHandler(reports *reportsvc.Service, moderation *modsvc.Service) *AdminReportsHandler {
	return &AdminReportsHandler{
		reports:    reports,
		moderation: moderation,
	}
}

func (h *AdminReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeInternal(w, "REPORT_SERVICE_UNAVAILABLE", "report service is unavailable")
		return
	}

	var status *enums.ReportStatus
	if raw := r.URL.Query().Get("status"); strings.TrimSpace(raw) != "" {
		parsed, ok := enums.ParseReportStatus(raw)
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", "unknown report status")
			return
		}
		status = &parsed
	}

	reports, err := h.reports.ListByStatus(r.Context(), status)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list reports")
		return
	}

	out := make([]dto.ReportSummary, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportSummary(rep))
	}

	httperrors.Write(w, http.StatusOK, dto.ReportListResponse{Reports: out})
}

func (h *AdminReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeInternal(w, "REPORT_SERVICE_UNAVAILABLE", "report service is unavailable")
		return
	}

	reportID := chi.URLParam(r, "id")
	rep, err := h.reports.Get(r.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, reportsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "report id is required")
		case errors.Is(err, reportsvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "report not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load report")
		}
		return
	}

	detail := dto.ReportDetail{
		ReportSummary: reportSummary(rep),
		Description:   rep.Description,
		Evidence:      rep.Evidence,
		UpdatedAt:     rep.UpdatedAt,
		ActionReason:  rep.ActionReason,
	}
	if rep.AppliedAction != nil {
		action := string(*rep.AppliedAction)
		detail.AppliedAction = &action
	}

	httperrors.Write(w, http.StatusOK, detail)
}

func (h *AdminReportsHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	var req dto.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	status, ok := enums.ParseReportStatus(req.Status)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown report status")
		return
	}
	action, ok := enums.ParseSafetyAction(req.Action)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown safety action")
		return
	}

	reportID := chi.URLParam(r, "id")
	err := h.moderation.Review(r.Context(), reportID, identity.UserID, modsvc.Decision{
		Status: status,
		Action: action,
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		switch {
		case errors.Is(err, modsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "status does not agree with action")
		case errors.Is(err, modsvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "report not found")
		case errors.Is(err, modsvc.ErrInvalidTransition):
			writeConflict(w, "ALREADY_REVIEWED", "report has already been reviewed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to review report")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminReportsHandler) SafetyState(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	userID, ok := userIDFromRequest(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	state, err := h.moderation.GetSafetyState(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, modsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "user id must be positive")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load safety state")
		}
		return
	}

	resp := dto.SafetyStateResponse{
		UserID:           state.UserID,
		AccountStatus:    string(state.AccountStatus),
		SuspendedUntil:   state.SuspendedUntil,
		WarningCount:     state.WarningCount,
		ProfileHidden:    state.ProfileHidden,
		LastActionReason: state.LastActionReason,
		LastActionAt:     state.LastActionAt,
	}
	if state.LastAction != nil {
		action := string(*state.LastAction)
		resp.LastAction = &action
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *AdminReportsHandler) Reinstate(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	userID, ok := userIDFromRequest(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	var req dto.ReinstateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.moderation.Reinstate(r.Context(), userID, identity.UserID, strings.TrimSpace(req.Reason)); err != nil {
		switch {
		case errors.Is(err, modsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "user id must be positive")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to reinstate user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func reportSummary(rep reportsvc.Report) dto.ReportSummary {
	return dto.ReportSummary{
		ID:             rep.ID,
		ReporterUserID: rep.ReporterID,
		ReportedUserID: rep.ReportedUserID,
		Category:       rep.Category,
		Severity:       string(rep.Severity),
		Status:         string(rep.Status),
		CreatedAt:      rep.CreatedAt,
		ReviewedBy:     rep.ReviewedBy,
		ReviewedAt:     rep.ReviewedAt,
	}
}

func userIDFromRequest(r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}
