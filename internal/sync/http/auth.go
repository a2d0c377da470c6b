package http

import (
	"net/http"
	"strconv"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/pkg/httpx"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	DeviceID     int    `json:"deviceId"`
}

type usernameResponse struct {
	Username string `json:"username"`
}

type testAccountResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// HandleSignup creates a new account.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, usernameResponse{Username: user.Username})
}

// HandleTokens is credential login. An optional ?deviceId=N query reuses an
// existing device slot, starting a new token family on it.
func (h *AuthHandler) HandleTokens(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var deviceID *int
	if raw := r.URL.Query().Get("deviceId"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "deviceId must be a non-negative integer")
			return
		}
		deviceID = &n
	}

	ctx := r.Context()
	user, err := h.UserService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	pair, err := h.TokenService.Issue(ctx, user.ID, deviceID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeTokenPair(w, pair.AccessToken, pair.RefreshToken, pair.DeviceID)
}

// HandleRefresh rotates a refresh token.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.TokenService.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeTokenPair(w, pair.AccessToken, pair.RefreshToken, pair.DeviceID)
}

// HandleLogout invalidates the session named by the presented refresh token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.TokenService.InvalidateByToken(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutDevice is remote logout: credentials in the body, the target
// device in the path.
func (h *AuthHandler) HandleLogoutDevice(w http.ResponseWriter, r *http.Request) {
	deviceID, err := strconv.Atoi(r.PathValue("deviceId"))
	if err != nil || deviceID < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "deviceId must be a non-negative integer")
		return
	}

	var req credentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if err := h.TokenService.InvalidateWithCredentials(ctx, req.Username, req.Password, deviceID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTestAccount mints a throwaway account and returns its credentials.
func (h *AuthHandler) HandleTestAccount(w http.ResponseWriter, r *http.Request) {
	username, password, err := h.UserService.CreateTestAccount(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, testAccountResponse{
		Username: username,
		Password: password,
	})
}

func writeTokenPair(w http.ResponseWriter, access, refresh string, deviceID int) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		DeviceID:     deviceID,
	})
}
