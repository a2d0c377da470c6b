package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/gridmines/minesync/internal/sync/http"
	"github.com/gridmines/minesync/internal/sync/service"
	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/internal/sync/store/drivers/sqlite"
	"github.com/gridmines/minesync/pkg/jwtx"
	"github.com/gridmines/minesync/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the sync service together: store, engines, HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	tokenService      *service.TokenService
	userService       *service.UserService
	syncService       *service.SyncService
	gameService       *service.GameService
	timeRecordService *service.TimeRecordService
	settingsService   *service.SettingsService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sync-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("sync service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down sync service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("sync service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	codec := jwtx.NewCodec(app.cfg.JWTSecret)

	app.tokenService = &service.TokenService{
		Store:      app.db,
		Codec:      codec,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.userService = &service.UserService{Store: app.db}
	app.syncService = &service.SyncService{Store: app.db}
	app.gameService = &service.GameService{Store: app.db}
	app.timeRecordService = &service.TimeRecordService{Store: app.db}
	app.settingsService = &service.SettingsService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.tokenService.Codec, BuildVersion, app.db, app.logger)
	router.UserService = app.userService
	router.TokenService = app.tokenService
	router.SyncService = app.syncService
	router.GameService = app.gameService
	router.TimeRecordService = app.timeRecordService
	router.SettingsService = app.settingsService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
