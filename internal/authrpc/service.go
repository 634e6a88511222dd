package authrpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "userauth.v1.AuthService"

// Full method names.
const (
	CreateUserMethod  = "/" + ServiceName + "/CreateUser"
	LoginMethod       = "/" + ServiceName + "/Login"
	VerifyTokenMethod = "/" + ServiceName + "/VerifyToken"
	LogoutMethod      = "/" + ServiceName + "/Logout"
	MeMethod          = "/" + ServiceName + "/Me"
	DeleteUserMethod  = "/" + ServiceName + "/DeleteUser"
)

// ProtectedMethods require the access_token metadata key.
var ProtectedMethods = map[string]bool{
	LogoutMethod:     true,
	MeMethod:         true,
	DeleteUserMethod: true,
}

type AuthServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*UserProfile, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	VerifyToken(context.Context, *VerifyTokenRequest) (*VerifyTokenResponse, error)
	Logout(context.Context, *Empty) (*MessageResponse, error)
	Me(context.Context, *Empty) (*UserProfile, error)
	DeleteUser(context.Context, *Empty) (*Empty, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUser", Handler: unaryHandler(CreateUserMethod, AuthServiceServer.CreateUser)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, AuthServiceServer.Login)},
		{MethodName: "VerifyToken", Handler: unaryHandler(VerifyTokenMethod, AuthServiceServer.VerifyToken)},
		{MethodName: "Logout", Handler: unaryHandler(LogoutMethod, AuthServiceServer.Logout)},
		{MethodName: "Me", Handler: unaryHandler(MeMethod, AuthServiceServer.Me)},
		{MethodName: "DeleteUser", Handler: unaryHandler(DeleteUserMethod, AuthServiceServer.DeleteUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth.proto",
}

type AuthServiceClient interface {
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserProfile, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	VerifyToken(ctx context.Context, in *VerifyTokenRequest, opts ...grpc.CallOption) (*VerifyTokenResponse, error)
	Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MessageResponse, error)
	Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserProfile, error)
	DeleteUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserProfile, error) {
	return invoke[UserProfile](ctx, c.cc, CreateUserMethod, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, LoginMethod, in, opts)
}

func (c *authServiceClient) VerifyToken(ctx context.Context, in *VerifyTokenRequest, opts ...grpc.CallOption) (*VerifyTokenResponse, error) {
	return invoke[VerifyTokenResponse](ctx, c.cc, VerifyTokenMethod, in, opts)
}

func (c *authServiceClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, LogoutMethod, in, opts)
}

func (c *authServiceClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserProfile, error) {
	return invoke[UserProfile](ctx, c.cc, MeMethod, in, opts)
}

func (c *authServiceClient) DeleteUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, DeleteUserMethod, in, opts)
}
