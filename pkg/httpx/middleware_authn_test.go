package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridmines/minesync/pkg/jwtx"
)

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec("authn-test-secret")

	handler := AuthnMiddleware(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		require.EqualValues(t, 42, userID)
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token passes and injects the user id", func(t *testing.T) {
		token, err := codec.SignAccess(jwtx.NewAccessClaims("42", time.Minute, time.Now()))
		require.NoError(t, err)

		rec := do("Bearer " + token)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := do("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"detail":"could not validate credentials"}`, rec.Body.String())
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := do("Bearer garbage")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token, err := codec.SignRefresh(jwtx.NewRefreshClaims("42", 0, 0, 0, time.Minute, time.Now()))
		require.NoError(t, err)

		rec := do("Bearer " + token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := codec.SignAccess(jwtx.NewAccessClaims("42", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		rec := do("Bearer " + token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
