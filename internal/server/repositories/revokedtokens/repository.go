// Package revokedtokens persists tokens that were explicitly invalidated
// before their expiry.
package revokedtokens

import "context"

type Repository interface {
	// Revoke records token. Recording an already revoked token is not an
	// error; inserted reports whether a new row was written.
	Revoke(ctx context.Context, token string) (inserted bool, err error)
	Exists(ctx context.Context, token string) (bool, error)
}
