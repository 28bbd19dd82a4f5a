package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts user storage operations
type UsersStore interface {
	// GetUser retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUser(id string) (*model.User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByEmail(email string) (*model.User, error)

	// CreateUser creates a new user.
	CreateUser(user *model.User) error

	// UpdatePassword replaces the password hash for a user.
	UpdatePassword(email string, passwordHash []byte) error
}
