// Package client is the userauth gRPC client used by the CLI.
//
// GRPCClient keeps the access token returned by Login and attaches it to
// every later call through a unary interceptor, under the access_token
// metadata key. Logout and DeleteUser forget the token.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists and
// ErrInvalidArgument. The server's message is kept in the error text.
// Calls that need a token fail with ErrNotLoggedIn before reaching the
// network when none is held.
package client
