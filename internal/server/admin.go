package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/storage"
)

// DemoIdentity is an identity created by Seed
type DemoIdentity struct {
	Username string
	Email    string
}

// DemoIdentities are the identities created by the --seed admin command
var DemoIdentities = []DemoIdentity{
	{Username: "edi", Email: "edi@repodevs.com"},
	{Username: "santoso", Email: "santoso@repodevs.com"},
}

// Seed creates the demo identities with the given password.
// Identities that already exist are skipped, so Seed can be run repeatedly.
// Returns number of created identities.
func (app *App) Seed(ctx context.Context, password string) (int, error) {
	created := 0
	for _, demo := range DemoIdentities {
		_, err := app.gate.Credentials().Register(ctx, demo.Username, demo.Email, password)
		switch {
		case errors.Is(err, auth.ErrConflict):
			app.logger.InfoContext(ctx, "seed: identity already exists", slog.String("username", demo.Username))
		case err != nil:
			return created, fmt.Errorf("seed %s: %w", demo.Username, err)
		default:
			created++
			app.logger.InfoContext(ctx, "seed: identity created", slog.String("username", demo.Username))
		}
	}
	return created, nil
}

// Deactivate disables the identity with the given email.
// Tokens already issued to it are rejected from then on.
func (app *App) Deactivate(ctx context.Context, email string) error {
	user, err := app.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("deactivate %s: %w", email, err)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := app.users.SetUserActive(ctx, user.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	app.logger.InfoContext(ctx, "identity deactivated", slog.Int64("user_id", user.ID))
	return nil
}
