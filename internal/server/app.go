// Package server assembles the journal server: storage, services, the HTTP
// and gRPC transports, the live feed and background session sweeping. It
// also handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/feed"
	"github.com/dmitrijs2005/gophjournal/internal/server/httpapi"
	"github.com/dmitrijs2005/gophjournal/internal/server/metrics"
	"github.com/dmitrijs2005/gophjournal/internal/server/oauth"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"

	gs "github.com/dmitrijs2005/gophjournal/internal/server/grpc"
)

const (
	dbConnectAttempts = 5
	dbConnectDelay    = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	users    *services.UserService
	entries  *services.EntryService
	exporter *services.ExportService
	hub      *feed.Hub
	metrics  *metrics.Metrics
	sweeper  *services.SessionSweeper
	google   oauth.Provider
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	repos, err := openStorage(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app := &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		users:   services.NewUserService(repos, c),
		entries: services.NewEntryService(repos),
		hub:     feed.NewHub(c.AllowedOrigins, logger),
		metrics: metrics.New(),
	}
	app.entries.SetNotifier(services.Notifiers{app.hub, app.metrics})

	if c.ExportEnabled() {
		app.exporter = services.NewExportService(app.entries, c)
	}
	if c.GoogleEnabled() {
		app.google = oauth.NewGoogle(c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
	}

	app.sweeper, err = services.NewSessionSweeper(app.users, c.SessionSweepSchedule, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return app, nil
}

// openStorage selects the repository manager for c.StorageDriver. Postgres
// is pinged with retries and migrated before use.
func openStorage(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	switch c.StorageDriver {
	case config.StoragePostgres:
		m, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN, dbConnectAttempts, dbConnectDelay)
		if err != nil {
			return nil, err
		}
		if err := m.RunMigrations(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
		logger.Info(ctx, "Connected to database")
		return m, nil
	case config.StorageFile:
		return repomanager.NewFileRepositoryManager(c.EntriesFile)
	case config.StorageMemory:
		logger.Warn(ctx, "Using in-memory storage, data is lost on restart")
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

func (app *App) router() http.Handler {
	s := &httpapi.Server{
		Entries: app.entries,
		Users:   app.users,
		Feed:    app.hub,
		Google:  app.google,
		Metrics: app.metrics,
		Options: httpapi.Options{
			AllowedOrigins: app.config.AllowedOrigins,
			CookieSecure:   app.config.CookieSecure,
			FrontendURL:    app.config.FrontendURL,
		},
		Logger: app.logger.With("module", "http_server"),
	}
	if app.exporter != nil {
		s.Exporter = app.exporter
	}
	return s.Router()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	var ex gs.Exporter
	if app.exporter != nil {
		ex = app.exporter
	}

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.users, app.entries, ex, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM/SIGQUIT arrives or a
// transport fails, then shuts everything down.
func (app *App) Run(ctx context.Context) {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	app.sweeper.Start()

	<-ctx.Done()
	wg.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.sweeper.Stop(stopCtx)

	if err := app.repos.Close(); err != nil {
		app.logger.Error(stopCtx, "close storage", "error", err)
	}

	app.logger.Info(stopCtx, "App stopped")
}
