// Package common contains shared constants and sentinel errors used across
// the userauth server and client.
package common

// AccessTokenHeaderName is the gRPC metadata key (and HTTP cookie name by
// default) used to carry the access token.
const AccessTokenHeaderName = "access_token"

// TokenTypeBearer is the token type reported on successful login.
const TokenTypeBearer = "bearer"
