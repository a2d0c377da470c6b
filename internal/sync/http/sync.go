package http

import (
	"net/http"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type SyncHandler struct {
	SyncService *service.SyncService
}

// HandlePut merges the submitted batch and returns the authoritative state.
// 201 when the merge inserted anything, 200 otherwise.
func (h *SyncHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req syncDataJSON
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Settings.DefaultAction != domain.ActionDig && req.Settings.DefaultAction != domain.ActionMark {
		httpx.WriteError(w, http.StatusBadRequest, "settings.defaultAction must be 'dig' or 'mark'")
		return
	}

	state, created, err := h.SyncService.Sync(ctx, userID, req.toDomain())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	httpx.WriteJSON(w, code, syncStateToJSON(state))
}

// HandleGet returns the current authoritative state without merging.
func (h *SyncHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	state, err := h.SyncService.Snapshot(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, syncStateToJSON(state))
}
