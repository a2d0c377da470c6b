package http

import (
	"net/http"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type TimesHandler struct {
	TimeRecordService *service.TimeRecordService
}

// HandleCreate inserts a time record, 409 when the id already exists.
func (h *TimesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req timeRecordJSON
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.TimeRecordService.Create(ctx, userID, req.toDomain()); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, req)
}

// HandleList returns all time records, 404 when there are none.
func (h *TimesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	records, err := h.TimeRecordService.List(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]timeRecordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, timeRecordToJSON(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete removes the record with the id in the path.
func (h *TimesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	if err := h.TimeRecordService.Delete(ctx, userID, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
