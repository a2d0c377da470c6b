package http

import (
	"net/http"
	"strconv"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type GamesHandler struct {
	GameService *service.GameService
}

// HandlePut upserts a game. 201 on insert, 200 on update, 409 when the
// server copy is newer.
func (h *GamesHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req gameJSON
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.GameService.Save(ctx, userID, req.toDomain())
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

// HandleList returns all games, 404 when there are none.
func (h *GamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	games, err := h.GameService.List(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, gameToJSON(g))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete removes the game at the difficulty in the path.
func (h *GamesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	difficulty, err := strconv.Atoi(r.PathValue("difficulty"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "difficulty must be an integer")
		return
	}

	if err := h.GameService.Delete(ctx, userID, difficulty); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
