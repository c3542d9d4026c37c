package cli

import (
	"context"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, identifier string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	identifier, err := c.inputOrPrompt(identifier, "Email or username: ")
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	session, err := c.authService.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", session.Username)
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}
