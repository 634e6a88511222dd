package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/metrics"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
)

type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

// RevocationLedger is satisfied by *revocation.Ledger.
type RevocationLedger interface {
	Revoke(ctx context.Context, tx dbx.DBTX, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// SessionService decides whether a presented access token is acceptable and
// ends sessions. A token is accepted only if it decodes and is not on the
// revocation list; the list is consulted on every call.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	decoder     TokenDecoder
	ledger      RevocationLedger
	metrics     *metrics.Collector
	log         logging.Logger
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, decoder TokenDecoder, ledger RevocationLedger,
	mc *metrics.Collector, log logging.Logger) *SessionService {
	if log == nil {
		log = logging.Nop{}
	}
	return &SessionService{
		db:          db,
		repomanager: m,
		decoder:     decoder,
		ledger:      ledger,
		metrics:     mc,
		log:         log.With("module", "sessions"),
	}
}

// Verify returns the email the token was issued for.
func (s *SessionService) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.metrics.TokenVerification(metrics.ResultFailure)
		s.log.Debug(ctx, "token rejected", "error", err)
		return "", common.ErrInvalidToken
	}

	revoked, err := s.ledger.IsRevoked(ctx, token)
	if err != nil {
		s.metrics.TokenVerification(metrics.ResultError)
		return "", err
	}
	if revoked {
		s.metrics.TokenVerification(metrics.ResultFailure)
		s.log.Debug(ctx, "revoked token presented")
		return "", common.ErrInvalidToken
	}

	s.metrics.TokenVerification(metrics.ResultSuccess)
	return normalizeEmail(claims.Subject), nil
}

// ResolveCurrentUser verifies token and loads its owner. A valid token whose
// owner no longer exists yields common.ErrUserNotFound.
func (s *SessionService) ResolveCurrentUser(ctx context.Context, token string) (*models.User, error) {
	email, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.log.Error(ctx, "failed to load current user", "error", err)
		return nil, storageFailure(err)
	}
	return user, nil
}

// Logout revokes a currently valid token.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if _, err := s.Verify(ctx, token); err != nil {
		return err
	}

	if err := s.ledger.Revoke(ctx, nil, token); err != nil {
		return storageFailure(err)
	}

	s.metrics.TokenRevoked(metrics.ReasonLogout)
	s.log.Info(ctx, "user logged out")
	return nil
}

// DeleteAccount removes the token owner's account and revokes the token in
// the same transaction.
func (s *SessionService) DeleteAccount(ctx context.Context, token string) error {
	user, err := s.ResolveCurrentUser(ctx, token)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Delete(ctx, user.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return err
		}
		return s.ledger.Revoke(ctx, tx, token)
	})
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return err
		}
		s.log.Error(ctx, "failed to delete account", "user_id", user.ID, "error", err)
		return storageFailure(err)
	}

	s.metrics.TokenRevoked(metrics.ReasonDeletion)
	s.log.Info(ctx, "account deleted", "user_id", user.ID)
	return nil
}
