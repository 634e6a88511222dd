package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/userauth/internal/authrpc"
	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses with fixed messages.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "could not validate credentials")
	case errors.Is(err, common.ErrUserNotFound):
		return status.Error(codes.Unauthenticated, common.ErrUserNotFound.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toProfile(u *models.User) *authrpc.UserProfile {
	p := u.Profile()
	return &authrpc.UserProfile{
		ID:          p.ID,
		UserName:    p.UserName,
		Email:       p.Email,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *authrpc.CreateUserRequest) (*authrpc.UserProfile, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.CreateUser(ctx, services.UserCreate{
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, toStatus(err)
	}

	return toProfile(user), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *authrpc.LoginRequest) (*authrpc.LoginResponse, error) {
	grant, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &authrpc.LoginResponse{
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresAt:   grant.ExpiresAt,
	}, nil
}

func (s *GRPCServer) VerifyToken(ctx context.Context, req *authrpc.VerifyTokenRequest) (*authrpc.VerifyTokenResponse, error) {
	token := req.Token
	if token == "" {
		token = tokenFromMetadata(ctx)
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	email, err := s.sessions.Verify(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}

	return &authrpc.VerifyTokenResponse{Valid: true, Email: email}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *authrpc.Empty) (*authrpc.MessageResponse, error) {
	if err := s.sessions.Logout(ctx, tokenFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &authrpc.MessageResponse{Message: "Successfully logged out"}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *authrpc.Empty) (*authrpc.UserProfile, error) {
	user, err := s.sessions.ResolveCurrentUser(ctx, tokenFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(user), nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, _ *authrpc.Empty) (*authrpc.Empty, error) {
	if err := s.sessions.DeleteAccount(ctx, tokenFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &authrpc.Empty{}, nil
}
