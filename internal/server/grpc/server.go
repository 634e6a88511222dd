// Package grpc exposes the authentication services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/userauth/internal/authrpc"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
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

type GRPCServer struct {
	address  string
	users    UserRegistrar
	auth     Authenticator
	sessions SessionManager
	logger   logging.Logger
}

var _ authrpc.AuthServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserRegistrar, as Authenticator, ss SessionManager) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		auth:     as,
		sessions: ss,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	authrpc.RegisterAuthServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(authrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
