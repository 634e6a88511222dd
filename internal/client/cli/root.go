package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/client/client"
)

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Root prints a greeting, checks the server is reachable and runs the REPL
// until the user leaves.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to userauth CLI (type 'help' for commands)")

	pingCtx, cancel := a.withTimeout(ctx)
	err := a.client.Ping(pingCtx)
	cancel()
	if errors.Is(err, client.ErrUnavailable) {
		fmt.Fprintln(a.out, "Warning: server is not reachable at", a.config.ServerEndpointAddr)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
