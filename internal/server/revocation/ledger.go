// Package revocation records tokens that were invalidated before expiry
// and answers whether a given token has been revoked.
package revocation

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/revokedtokens"
	"github.com/patrickmn/go-cache"
)

// RepositoryFactory vends a revoked-token repository bound to a DBTX.
type RepositoryFactory interface {
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}

// Ledger is the persistent revocation list. Revocations are permanent.
//
// A cache may front the database. It only ever holds "revoked" answers that
// were read back from storage, so a cached entry is always true and a miss
// always falls through to the database.
type Ledger struct {
	db    *sql.DB
	repos RepositoryFactory
	cache *cache.Cache
	log   logging.Logger
}

// NewLedger builds a Ledger. cacheTTL of zero disables the cache.
func NewLedger(db *sql.DB, repos RepositoryFactory, cacheTTL time.Duration, log logging.Logger) *Ledger {
	if log == nil {
		log = logging.Nop{}
	}
	l := &Ledger{db: db, repos: repos, log: log.With("module", "revocation")}
	if cacheTTL > 0 {
		l.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return l
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke records token as revoked. tx lets the caller make the revocation
// part of a wider transaction; nil runs it directly on the database.
// Revoking a token twice succeeds.
func (l *Ledger) Revoke(ctx context.Context, tx dbx.DBTX, token string) error {
	if tx == nil {
		tx = l.db
	}

	inserted, err := l.repos.RevokedTokens(tx).Revoke(ctx, token)
	if err != nil {
		l.log.Error(ctx, "failed to revoke token", "error", err)
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	if !inserted {
		l.log.Debug(ctx, "token already revoked", "token_hash", cacheKey(token)[:8])
	}
	return nil
}

// IsRevoked reports whether token is on the revocation list.
func (l *Ledger) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := cacheKey(token)

	if l.cache != nil {
		if _, found := l.cache.Get(key); found {
			return true, nil
		}
	}

	revoked, err := l.repos.RevokedTokens(l.db).Exists(ctx, token)
	if err != nil {
		l.log.Warn(ctx, "failed to check token revocation status", "error", err)
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	if revoked && l.cache != nil {
		l.cache.SetDefault(key, true)
	}
	return revoked, nil
}
