// Package auth holds the credential primitives: password hashing and the
// signed access-token codec.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the access-token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// Claims carries the owner email in sub, plus exp, iat and a random jti.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and decodes HMAC-signed access tokens. The secret and
// algorithm are fixed for the lifetime of the codec, so rotating the secret
// invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenCodec{secret: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// TTL returns the default lifetime used by Issue.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Issue(subject string) (string, time.Time, error) {
	return c.IssueWithTTL(subject, c.ttl)
}

// IssueWithTTL signs a token for subject that expires ttl from now. A ttl of
// zero or less yields a token that is already expired.
func (c *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	exp := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(c.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: exp,
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, exp.Time, nil
}

// Decode validates tokenString and returns its claims. Every failure is
// reported as common.ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.ExpiresAt == nil || !c.now().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: token is expired", common.ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return claims, nil
}
