// Package cli provides the interactive userauth command-line client.
//
// It wires configuration, the gRPC client and a small REPL. Typical flow:
// register an account, log in, then inspect or end the session.
//
// Commands:
//   - register / login
//   - me / verify
//   - logout / delete
//   - help / exit
//
// The REPL is started via App.Root(ctx), which blocks until the user exits
// or stdin is closed.
package cli
