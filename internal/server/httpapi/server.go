// Package httpapi serves the REST surface of the authentication service:
// login, token verification, logout and the current-user endpoints.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/metrics"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
)

type UserRegistrar interface {
	CreateUser(ctx context.Context, in services.UserCreate) (*models.User, error)
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.TokenGrant, error)
}

type SessionManager interface {
	Verify(ctx context.Context, token string) (string, error)
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	DeleteAccount(ctx context.Context, token string) error
}

// Pinger reports storage liveness for /health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address    string
	cookieName string
	users      UserRegistrar
	auth       Authenticator
	sessions   SessionManager
	pinger     Pinger
	metrics    *metrics.Collector
	logger     logging.Logger
	mux        *http.ServeMux
}

type Options struct {
	Address    string
	CookieName string
	Users      UserRegistrar
	Auth       Authenticator
	Sessions   SessionManager
	Pinger     Pinger
	Metrics    *metrics.Collector
	Logger     logging.Logger
}

func NewHTTPServer(o Options) *HTTPServer {
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	s := &HTTPServer{
		address:    o.Address,
		cookieName: o.CookieName,
		users:      o.Users,
		auth:       o.Auth,
		sessions:   o.Sessions,
		pinger:     o.Pinger,
		metrics:    o.Metrics,
		logger:     o.Logger.With("module", "http_server"),
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.handle("GET /{$}", s.welcome)
	s.handle("GET /health", s.health)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.handle("POST /api/v1/auth/login", s.login)
	s.handle("POST /api/v1/auth/verify-token", s.verifyToken)
	s.handle("POST /api/v1/auth/logout", s.logout)

	s.handle("GET /api/v1/user/me", s.me)
	s.handle("POST /api/v1/user/{$}", s.createUser)
	s.handle("DELETE /api/v1/user/{$}", s.deleteUser)
}

func (s *HTTPServer) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.loggingMiddleware(pattern, h))
}

// Handler returns the routed handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is done, then shuts down
// gracefully.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	server := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server forced to shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
