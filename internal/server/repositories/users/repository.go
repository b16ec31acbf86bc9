package users

import (
	"context"

	"github.com/gramolapp/gramola/internal/server/models"
)

// Repository is the user entity store, keyed by email.
type Repository interface {
	// Create persists a new user. Returns common.ErrConflict if a user
	// with the same email already exists.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail returns the user or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update overwrites the stored user. Returns common.ErrNotFound if
	// the user does not exist.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user. Returns common.ErrNotFound if the user
	// does not exist.
	Delete(ctx context.Context, email string) error
}
