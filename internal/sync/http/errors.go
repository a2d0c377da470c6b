package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
	"github.com/gridmines/minesync/pkg/slogx"
)

// writeServiceError maps service errors onto HTTP responses. Auth failures
// always produce the same generic 401 body; the internal reason only goes
// to the log.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	var authErr *service.AuthError
	var valErr *service.ValidationError

	switch {
	case errors.As(err, &authErr):
		log.Warn("authentication failed", "reason", authErr.Reason)
		w.Header().Set("WWW-Authenticate", "Bearer")
		httpx.WriteError(w, http.StatusUnauthorized, authErr.Error())

	case errors.As(err, &valErr):
		httpx.WriteError(w, http.StatusBadRequest, valErr.Detail)

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrNewerVersion),
		errors.Is(err, service.ErrRecordExists),
		errors.Is(err, service.ErrDuplicateRecordIDs),
		errors.Is(err, service.ErrDuplicateDifficulties):
		httpx.WriteError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")

	case errors.Is(err, service.ErrConsistency):
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())

	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
