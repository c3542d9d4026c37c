// Package server wires configuration, storage, the authorization gate and
// the HTTP layer into a runnable application.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/config"
	"github.com/iudanet/usersauth/internal/server/handlers"
	"github.com/iudanet/usersauth/internal/server/middleware"
	"github.com/iudanet/usersauth/internal/server/storage"
	"github.com/iudanet/usersauth/internal/server/storage/boltdb"
	"github.com/iudanet/usersauth/internal/server/storage/postgres"
	"github.com/iudanet/usersauth/internal/server/storage/sqlite"
	"github.com/iudanet/usersauth/internal/server/token"
)

// identityStore is the SQL backend: identities plus the default revocation list
type identityStore interface {
	storage.UserStorage
	storage.RevocationStorage
	io.Closer
}

type App struct {
	config      *config.Config
	logger      *slog.Logger
	users       storage.UserStorage
	revocations storage.RevocationStorage
	gate        *auth.Gate
	compactor   *auth.Compactor
	limiter     *middleware.PathRateLimiter
	handler     http.Handler
	closers     []io.Closer
	closeOnce   sync.Once
}

// NewApp opens storage (migrations run on open) and builds the HTTP handler.
// Extra options (e.g. auth.WithClock) are passed to the authorization core.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...auth.Option) (*App, error) {
	app := &App{config: cfg, logger: logger}

	db, err := openIdentityStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)
	app.users = db
	app.revocations = db

	if cfg.Revocation.Backend == config.RevocationBolt {
		bolt, err := boltdb.New(ctx, cfg.Revocation.BoltPath)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("revocation store init error: %w", err)
		}
		app.closers = append(app.closers, bolt)
		app.revocations = bolt
	}

	codec, err := token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	authOpts := append([]auth.Option{
		auth.WithLogger(logger),
		auth.WithBcryptCost(cfg.Security.BcryptCost),
	}, opts...)

	credentials, err := auth.NewCredentials(app.users, authOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("credentials init error: %w", err)
	}

	app.gate = auth.NewGate(credentials, codec, app.users, app.revocations, authOpts...)
	app.compactor = auth.NewCompactor(app.revocations, cfg.Revocation.CompactInterval, authOpts...)
	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("rate limit config error: %w", err)
	}
	app.handler = app.routes(proxies)

	return app, nil
}

func openIdentityStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (identityStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite init error: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres init error: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func (app *App) routes(proxies middleware.TrustedProxies) http.Handler {
	authHandler := handlers.NewAuthHandler(app.logger, app.gate)
	usersHandler := handlers.NewUsersHandler(app.logger, app.gate.Credentials(), app.users)
	healthHandler := handlers.NewHealthHandler(app.logger)

	requireAuth := middleware.AuthMiddleware(app.logger, app.gate)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", healthHandler.Ping)

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /auth/status", requireAuth(http.HandlerFunc(authHandler.Status)))

	mux.Handle("POST /users", requireAuth(http.HandlerFunc(usersHandler.Create)))
	mux.HandleFunc("GET /users", usersHandler.List)
	mux.HandleFunc("GET /users/{id}", usersHandler.Get)

	var handler http.Handler = middleware.TimeoutMiddleware(app.config.Server.RequestTimeout)(mux)

	// Ограничиваем только точки, где проверяется пароль
	if app.config.RateLimit.Requests > 0 {
		app.limiter = middleware.NewPathRateLimiter([]middleware.PathRateLimit{
			{Path: "/auth/login", Rate: app.config.RateLimit.Requests, Window: app.config.RateLimit.Window},
			{Path: "/auth/register", Rate: app.config.RateLimit.Requests, Window: app.config.RateLimit.Window},
		}, proxies, app.logger)
		handler = app.limiter.Middleware(handler)
	}

	// Recovery внутри Logging: паника попадает в лог запроса со статусом 500 и request id
	handler = middleware.RecoveryMiddleware(app.logger)(handler)
	handler = middleware.LoggingWithSkip(app.logger, []string{"/ping"})(handler)

	return handler
}

// Handler returns the fully wrapped HTTP handler
func (app *App) Handler() http.Handler {
	return app.handler
}

// Gate returns the authorization core
func (app *App) Gate() *auth.Gate {
	return app.gate
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (app *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", app.config.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.config.Server.Address, err)
	}

	return app.Serve(ctx, listener)
}

// Serve is Run on an already open listener
func (app *App) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      app.handler,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.compactor.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.InfoContext(ctx, "server started", slog.String("address", listener.Addr().String()))
		serveErr <- srv.Serve(listener)
	}()

	var err error
	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		app.logger.InfoContext(ctx, "shutting down server")

		// ctx уже отменен, поэтому shutdown получает свой контекст
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.Server.ShutdownTimeout)
		defer shutdownCancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			err = fmt.Errorf("server shutdown: %w", shutdownErr)
		}
	}

	cancel()
	wg.Wait()

	return err
}

// Close stops background work and closes storage
func (app *App) Close() error {
	var errs []error
	app.closeOnce.Do(func() {
		if app.limiter != nil {
			app.limiter.Stop()
		}
		// закрываем в обратном порядке открытия
		for i := len(app.closers) - 1; i >= 0; i-- {
			if err := app.closers[i].Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
