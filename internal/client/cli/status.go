package cli

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/usersauth/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, user, err := c.authService.Status(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'usersauth login' to authenticate.")
		return nil
	}
	if err != nil && session == nil {
		return err
	}

	c.io.Printf("Server: %s\n", session.ServerURL)
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	// Сессия есть локально, но сервер ее не принял
	if err != nil {
		c.io.Println("Status: Session rejected by server")
		c.io.Printf("Reason: %v\n", err)
		if session.Expired(c.now()) {
			c.io.Println("⚠️  Token has expired. Please login again.")
		}
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.printUser(user)

	return nil
}
