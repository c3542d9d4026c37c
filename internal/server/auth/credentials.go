package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/usersauth/internal/crypto"
	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/storage"
	"github.com/iudanet/usersauth/internal/validation"
)

// dummyPassword хешируется один раз, чтобы проверка несуществующего
// пользователя занимала столько же времени, сколько и существующего
const dummyPassword = "usersauth-dummy-password"

// Credentials registers identities and verifies passwords
type Credentials struct {
	users     storage.UserStorage
	clock     func() time.Time
	dummyHash string
	cost      int
}

// NewCredentials creates a credential store on top of users
func NewCredentials(users storage.UserStorage, opts ...Option) (*Credentials, error) {
	o := newOptions(opts)

	dummyHash, err := crypto.HashPassword(dummyPassword, o.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Credentials{
		users:     users,
		clock:     o.clock,
		cost:      o.cost,
		dummyHash: dummyHash,
	}, nil
}

// Register validates input, hashes the password and persists a new active identity
func (c *Credentials) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	req := validation.Registration{Username: username, Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := crypto.HashPassword(password, c.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    c.clock(),
	}

	if err := c.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Verify finds the identity by email or username and checks the password
func (c *Credentials) Verify(ctx context.Context, identifier, password string) (*models.User, error) {
	req := validation.Login{Identifier: identifier, Password: password}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user, err := c.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Сравнение выполняется всегда, результат не важен
			_ = crypto.VerifyPassword(password, c.dummyHash)
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return nil, ErrPasswordMismatch
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

func (c *Credentials) lookup(ctx context.Context, identifier string) (*models.User, error) {
	user, err := c.users.GetUserByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user, err = c.users.GetUserByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}
