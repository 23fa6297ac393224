package handlers

import (
	"net/http"

	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/heartbeat/backend/internal/transport/http/errors"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
