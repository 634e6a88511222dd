// Package server initializes and runs the authentication server.
// It opens storage, applies migrations, assembles the services and runs the
// gRPC and HTTP transports until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/config"
	"github.com/dmitrijs2005/userauth/internal/server/httpapi"
	"github.com/dmitrijs2005/userauth/internal/server/metrics"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userauth/internal/server/revocation"
	"github.com/dmitrijs2005/userauth/internal/server/services"

	gs "github.com/dmitrijs2005/userauth/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	metrics        *metrics.Collector
	userService    *services.UserService
	authService    *services.AuthService
	sessionService *services.SessionService
}

// NewApp opens the database named by c.DatabaseDSN, brings its schema up to
// date and wires the services. Close releases the database.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	hasher, err := auth.NewHasher(c.PasswordHashScheme, c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	mc := metrics.New()
	ledger := revocation.NewLedger(db, rm, c.RevocationCacheTTL, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		metrics:        mc,
		userService:    services.NewUserService(db, rm, hasher, mc, logger),
		authService:    services.NewAuthService(db, rm, hasher, codec, mc, logger),
		sessionService: services.NewSessionService(db, rm, codec, ledger, mc, logger),
	}, nil
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

func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.authService, app.sessionService)
}

func (app *App) httpServer() *httpapi.HTTPServer {
	return httpapi.NewHTTPServer(httpapi.Options{
		Address:    app.config.EndpointAddrHTTP,
		CookieName: app.config.CookieName,
		Users:      app.userService,
		Auth:       app.authService,
		Sessions:   app.sessionService,
		Pinger:     app.db,
		Metrics:    app.metrics,
		Logger:     app.logger,
	})
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives or one of the servers fails. A failing server stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.grpcServer().Run(gctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := app.httpServer().Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) Close() error {
	return app.db.Close()
}
