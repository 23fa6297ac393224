package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	blocksvc "github.com/ivankudzin/heartbeat/backend/internal/services/blocks"

	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/heartbeat/backend/internal/transport/http/errors"
)

type BlocksHandler struct {
	service *blocksvc.Service
}

func NewBlocksHandler(service *blocksvc.Service) *BlocksHandler {
	return &BlocksHandler{service: service}
}

func (h *BlocksHandler) Block(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BLOCK_SERVICE_UNAVAILABLE", "block service is unavailable")
		return
	}

	var req dto.BlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	err := h.service.Block(r.Context(), identity.UserID, req.BlockedUserID, strings.TrimSpace(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, blocksvc.ErrInvalidArgument):
			writeBadRequest(w, "VALIDATION_ERROR", "cannot block yourself")
		case errors.Is(err, blocksvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "blocked_user_id is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to block user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *BlocksHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BLOCK_SERVICE_UNAVAILABLE", "block service is unavailable")
		return
	}

	var req dto.UnblockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Unblock(r.Context(), identity.UserID, req.BlockedUserID); err != nil {
		switch {
		case errors.Is(err, blocksvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "blocked_user_id is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unblock user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *BlocksHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BLOCK_SERVICE_UNAVAILABLE", "block service is unavailable")
		return
	}

	ids, err := h.service.ListBlocked(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list blocked users")
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	httperrors.Write(w, http.StatusOK, dto.BlockedUsersResponse{BlockedUserIDs: ids})
}

// Check answers whether a block exists in either direction between the
// caller and the queried user. Other surfaces (matching, messaging) call
// this before letting the two interact.
func (h *BlocksHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BLOCK_SERVICE_UNAVAILABLE", "block service is unavailable")
		return
	}

	otherID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || otherID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id query parameter is required")
		return
	}

	blocked, err := h.service.IsBlocked(r.Context(), identity.UserID, otherID)
	if err != nil {
		switch {
		case errors.Is(err, blocksvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "user_id must be positive")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to check block state")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.BlockCheckResponse{Blocked: blocked})
}
