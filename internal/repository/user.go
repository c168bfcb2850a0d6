package repository

import (
	"context"
	"errors"

	"shopapi/internal/model"
)

// ErrDuplicateUsername reports a username collision detected by the store.
var ErrDuplicateUsername = errors.New("username already taken")

// UserRepository defines data access for users. Username uniqueness is
// enforced by the database; there is no update or delete path.
type UserRepository interface {
	// Create inserts a new user row and returns the stored record, or
	// ErrDuplicateUsername when the username is already taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByUsername returns a user by username, or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
