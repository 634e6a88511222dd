package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/metrics"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
)

// TokenIssuer mints access tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}

// TokenGrant is the result of a successful login.
type TokenGrant struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.Hasher
	issuer      TokenIssuer
	metrics     *metrics.Collector
	log         logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.Hasher, issuer TokenIssuer,
	mc *metrics.Collector, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		metrics:     mc,
		log:         log.With("module", "auth"),
	}
}

// Authenticate checks email and password. An unknown email and a wrong
// password both yield common.ErrInvalidCredentials; for an unknown email a
// throwaway digest is still verified so the two cases take similar time.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.verifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "failed to look up user", "error", err)
		return nil, storageFailure(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored password digest is unusable", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a bearer access token for the user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenGrant, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.metrics.LoginAttempt(metrics.ResultFailure)
			s.log.Info(ctx, "login rejected")
		} else {
			s.metrics.LoginAttempt(metrics.ResultError)
		}
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(user.Email)
	if err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		s.log.Error(ctx, "failed to sign access token", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.metrics.LoginAttempt(metrics.ResultSuccess)
	s.log.Info(ctx, "user logged in", "user_id", user.ID)

	return &TokenGrant{AccessToken: token, TokenType: common.TokenTypeBearer, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		seed, err := cryptox.RandomBytes(16)
		if err != nil {
			return
		}
		s.dummyDigest, _ = s.hasher.Hash(string(seed))
	})
	if s.dummyDigest != "" {
		_, _ = s.hasher.Verify(password, s.dummyDigest)
	}
}
