// Package server wires storage, mail delivery, session handling and the HTTP
// API together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Santos2175/auth-app/internal/logging"
	"github.com/Santos2175/auth-app/internal/server/auth"
	"github.com/Santos2175/auth-app/internal/server/config"
	"github.com/Santos2175/auth-app/internal/server/hasher"
	"github.com/Santos2175/auth-app/internal/server/notifications"
	"github.com/Santos2175/auth-app/internal/server/repositories/repomanager"
	"github.com/Santos2175/auth-app/internal/server/revocation"
	"github.com/Santos2175/auth-app/internal/server/services"

	hs "github.com/Santos2175/auth-app/internal/server/http"
)

const startupTimeout = 30 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	dispatcher  *notifications.Dispatcher
	authService *services.AuthService
	guard       *auth.Guard
}

// NewApp builds every component from c. Logs go to stdout.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOutput io.Writer) (*App, error) {
	logger := logging.New(logOutput, c.Environment)
	app := &App{config: c, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	rm, err := app.initStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	sink, err := app.initMailSink()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.dispatcher = notifications.NewDispatcher(sink, logger, c.NotificationQueueSize)

	mint := auth.NewMint(c, time.Now)

	var opts []services.Option
	var checker auth.RevocationChecker
	if c.RevokeOnLogout {
		store, err := app.initRevocations(ctx)
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, services.WithRevocations(store))
		checker = store
	}

	app.guard = auth.NewGuard(mint, checker)
	app.authService = services.NewAuthService(app.db, rm, hasher.NewBcrypt(c.BcryptCost), mint, app.dispatcher,
		c.ClientURL, logger, opts...)

	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	switch app.config.StorageMode {
	case config.StorageModeMemory:
		app.logger.Warn(ctx, "Using in-memory storage, accounts are lost on restart")
		return repomanager.NewInMemoryRepositoryManager(), nil

	case config.StorageModePostgres:
		db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db

		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return rm, nil

	default:
		return nil, fmt.Errorf("unknown storage mode %q", app.config.StorageMode)
	}
}

func (app *App) initMailSink() (notifications.Sink, error) {
	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	switch app.config.MailMode {
	case config.MailModeLog:
		return notifications.NewLogSink(app.logger, renderer), nil
	case config.MailModeSMTP:
		sink, err := notifications.NewSMTPSink(notifications.SMTPConfig{
			Host:        app.config.SMTPHost,
			Port:        app.config.SMTPPort,
			User:        app.config.SMTPUser,
			Password:    app.config.SMTPPassword,
			FromName:    app.config.EmailFrom,
			FromAddress: app.config.EmailAddress,
		}, renderer)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown mail mode %q", app.config.MailMode)
	}
}

func (app *App) initRevocations(ctx context.Context) (*revocation.RedisStore, error) {
	app.redis = redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})

	store := revocation.NewRedisStore(app.redis, time.Now)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	return store, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newHTTPServer() *hs.HTTPServer {
	return hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.guard,
		app.config.ClientURL, app.config.IsProduction(), app.config.SessionValidityDuration)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.newHTTPServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases every resource.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageMode, "mail", app.config.MailMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

// Close flushes queued mail and closes the database and Redis connections.
func (app *App) Close() {
	ctx := context.Background()

	if app.dispatcher != nil {
		app.dispatcher.Close()
		app.dispatcher = nil
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
		app.redis = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
		app.db = nil
	}
}
