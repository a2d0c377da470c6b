package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gridmines/minesync/pkg/jwtx"
	"github.com/gridmines/minesync/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token and injects the subject
// user id into the request context. Failures always produce the same generic
// body; the reason only goes to the log.
func AuthnMiddleware(codec *jwtx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := codec.VerifyAccess(raw)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				log.Warn("access token subject is not a user id", "sub", claims.Subject)
				writeBearerError(w, "invalid subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, userID)))
		})
	}
}

// RFC 6750-style bearer failure; the description goes in the header, the
// body stays generic so callers cannot branch on it.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "could not validate credentials")
}
