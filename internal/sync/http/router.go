package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/pkg/httpx"
	"github.com/gridmines/minesync/pkg/jwtx"
	"github.com/gridmines/minesync/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	UserService       *service.UserService
	TokenService      *service.TokenService
	SyncService       *service.SyncService
	GameService       *service.GameService
	TimeRecordService *service.TimeRecordService
	SettingsService   *service.SettingsService
}

func NewRouter(codec *jwtx.Codec, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSync()
	r.registerGames()
	r.registerTimes()
	r.registerSettings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}

	r.Mux.HandleFunc("POST /v1/auth/signup", h.HandleSignup)
	r.Mux.HandleFunc("POST /v1/auth/tokens", h.HandleTokens)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)
	r.Mux.HandleFunc("POST /v1/auth/logout", h.HandleLogout)
	r.Mux.HandleFunc("POST /v1/auth/logout/{deviceId}", h.HandleLogoutDevice)
	r.Mux.HandleFunc("POST /v1/auth/testaccount", h.HandleTestAccount)
}

func (r *Router) registerUsers() {
	h := &MeHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/me", r.secured(h))
}

func (r *Router) registerSync() {
	h := &SyncHandler{SyncService: r.SyncService}

	r.Mux.Handle("PUT /v1/sync", r.secured(http.HandlerFunc(h.HandlePut)))
	r.Mux.Handle("GET /v1/sync", r.secured(http.HandlerFunc(h.HandleGet)))
}

func (r *Router) registerGames() {
	h := &GamesHandler{GameService: r.GameService}

	r.Mux.Handle("PUT /v1/games", r.secured(http.HandlerFunc(h.HandlePut)))
	r.Mux.Handle("GET /v1/games", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /v1/games/{difficulty}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerTimes() {
	h := &TimesHandler{TimeRecordService: r.TimeRecordService}

	r.Mux.Handle("POST /v1/times", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/times", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /v1/times/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	r.Mux.Handle("PUT /v1/settings", r.secured(http.HandlerFunc(h.HandlePut)))
	r.Mux.Handle("GET /v1/settings", r.secured(http.HandlerFunc(h.HandleGet)))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// secured wraps a handler with bearer-token authentication.
func (r *Router) secured(h http.Handler) http.Handler {
	return httpx.Chain(h, httpx.AuthnMiddleware(r.codec))
}
