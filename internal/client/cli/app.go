package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/userauth/internal/authrpc"
	"github.com/dmitrijs2005/userauth/internal/client/client"
	"github.com/dmitrijs2005/userauth/internal/client/config"
)

// AuthClient is the server surface the CLI drives. *client.GRPCClient
// satisfies it.
type AuthClient interface {
	Register(ctx context.Context, in *authrpc.CreateUserRequest) (*authrpc.UserProfile, error)
	Login(ctx context.Context, email string, password []byte) (*authrpc.LoginResponse, error)
	VerifyToken(ctx context.Context) (string, error)
	Me(ctx context.Context) (*authrpc.UserProfile, error)
	Logout(ctx context.Context) (string, error)
	DeleteUser(ctx context.Context) error
	Ping(ctx context.Context) error
	IsLoggedIn() bool
	Close() error
}

type App struct {
	config *config.Config
	client AuthClient
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.IsLoggedIn()
}

// withTimeout bounds a single command's RPC by the configured timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
