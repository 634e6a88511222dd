package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userauth/internal/authrpc"
	"github.com/dmitrijs2005/userauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      authrpc.AuthServiceClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a client for endpointURL. The connection is lazy:
// nothing is dialled until the first call. Extra options are appended to the
// defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = authrpc.NewAuthServiceClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (s *GRPCClient) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) IsLoggedIn() bool {
	return s.AccessToken() != ""
}

func (s *GRPCClient) Register(ctx context.Context, in *authrpc.CreateUserRequest) (*authrpc.UserProfile, error) {
	res, err := s.client.CreateUser(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}
	return res, nil
}

// Login authenticates and keeps the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*authrpc.LoginResponse, error) {
	res, err := s.client.Login(ctx, &authrpc.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setAccessToken(res.AccessToken)
	return res, nil
}

// VerifyToken asks the server whether the held token is still valid and
// returns the email it was issued for.
func (s *GRPCClient) VerifyToken(ctx context.Context) (string, error) {
	token := s.AccessToken()
	if token == "" {
		return "", ErrNotLoggedIn
	}
	res, err := s.client.VerifyToken(ctx, &authrpc.VerifyTokenRequest{Token: token})
	if err != nil {
		return "", s.mapError(err)
	}
	return res.Email, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*authrpc.UserProfile, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	res, err := s.client.Me(ctx, &authrpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return res, nil
}

// Logout revokes the held token on the server. The local copy is dropped
// even when the server already considers it invalid.
func (s *GRPCClient) Logout(ctx context.Context) (string, error) {
	if !s.IsLoggedIn() {
		return "", ErrNotLoggedIn
	}
	res, err := s.client.Logout(ctx, &authrpc.Empty{})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.setAccessToken("")
		}
		return "", s.mapError(err)
	}
	s.setAccessToken("")
	return res.Message, nil
}

// DeleteUser removes the logged-in account and forgets the token.
func (s *GRPCClient) DeleteUser(ctx context.Context) error {
	if !s.IsLoggedIn() {
		return ErrNotLoggedIn
	}
	if _, err := s.client.DeleteUser(ctx, &authrpc.Empty{}); err != nil {
		return s.mapError(err)
	}
	s.setAccessToken("")
	return nil
}

// Ping checks server reachability through the standard health service.
func (s *GRPCClient) Ping(ctx context.Context) error {
	res, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, res.GetStatus())
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
