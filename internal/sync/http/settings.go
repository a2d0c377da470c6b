package http

import (
	"net/http"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// HandlePut upserts the settings singleton. 201 on first write, 200 on
// update, 409 when the server copy is at least as new.
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req settingsJSON
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DefaultAction != domain.ActionDig && req.DefaultAction != domain.ActionMark {
		httpx.WriteError(w, http.StatusBadRequest, "defaultAction must be 'dig' or 'mark'")
		return
	}

	created, err := h.SettingsService.Save(ctx, userID, req.toDomain())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	httpx.WriteJSON(w, code, req)
}

// HandleGet returns the settings, 404 when never written.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	settings, err := h.SettingsService.Get(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, settingsToJSON(settings))
}
