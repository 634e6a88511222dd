// Package services contains server-side business logic: registration,
// credential checks and the access-token session lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/metrics"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
)

// UserCreate is the registration input. IsActive is accepted but ignored:
// new accounts always start inactive.
type UserCreate struct {
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.Hasher
	metrics     *metrics.Collector
	log         logging.Logger
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.Hasher,
	mc *metrics.Collector, log logging.Logger) *UserService {
	if log == nil {
		log = logging.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		metrics:     mc,
		log:         log.With("module", "users"),
		now:         time.Now,
	}
}

func validateUserCreate(in UserCreate) error {
	switch {
	case strings.TrimSpace(in.UserName) == "":
		return fmt.Errorf("%w: userName is required", common.ErrValidation)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: email is not valid", common.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}

// CreateUser registers a new account. The email check and the insert run
// in one transaction; a taken email yields common.ErrDuplicateEmail.
func (s *UserService) CreateUser(ctx context.Context, in UserCreate) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateUserCreate(in); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "failed to hash password", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		UserName:     strings.TrimSpace(in.UserName),
		Email:        in.Email,
		PasswordHash: digest,
		Description:  in.Description,
		IsActive:     false,
		CreatedAt:    s.now().UTC(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, user.Email)
		switch {
		case err == nil:
			return common.ErrDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		s.log.Error(ctx, "failed to create user", "error", err)
		return nil, storageFailure(err)
	}

	s.metrics.UserCreated()
	s.log.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// storageFailure wraps err as common.ErrStorageFailure unless it already is.
func storageFailure(err error) error {
	if errors.Is(err, common.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
}
