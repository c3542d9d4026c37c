package storage

import (
	"context"

	"github.com/iudanet/usersauth/internal/models"
)

// UserStorage defines interface for identity persistence
type UserStorage interface {
	// CreateUser inserts a new user and sets user.ID
	// The insert is atomic: returns ErrUserAlreadyExists if username or email
	// is already taken, and nothing is written in that case
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers returns all users, newest first
	ListUsers(ctx context.Context) ([]*models.User, error)

	// SetUserActive enables or disables a user
	// Returns ErrUserNotFound if user doesn't exist
	SetUserActive(ctx context.Context, userID int64, active bool) error
}
