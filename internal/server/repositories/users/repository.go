// Package users is the credential store: persistence of user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its ID. A taken email yields
	// common.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail and GetUserByID return common.ErrorNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Delete hard-deletes the user; common.ErrorNotFound if nothing matched.
	Delete(ctx context.Context, id int64) error
}
