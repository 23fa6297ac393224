package handlers

import (
	"net/http"

	statsvc "github.com/ivankudzin/heartbeat/backend/internal/services/stats"

	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/heartbeat/backend/internal/transport/http/errors"
)

type StatsHandler struct {
	service *statsvc.Service
}

func NewStatsHandler(service *statsvc.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.service.Compute(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to compute safety stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{
		TotalReports:      stats.TotalReports,
		PendingReports:    stats.PendingReports,
		ResolvedReports:   stats.ResolvedReports,
		TotalBlocks:       stats.TotalBlocks,
		ReportsByCategory: stats.ReportsByCategory,
		ReportsBySeverity: stats.ReportsBySeverity,
	})
}
