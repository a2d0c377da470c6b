package http

import (
	"net/http"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the authenticated user's profile.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	user, err := h.UserService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, usernameResponse{Username: user.Username})
}
