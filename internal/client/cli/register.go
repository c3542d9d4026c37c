package cli

import (
	"context"
	"errors"
	"os"
)

func (c *Cli) runRegister(ctx context.Context, username, email string) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.inputOrPrompt(username, "Username: ")
	if err != nil {
		return err
	}
	email, err = c.inputOrPrompt(email, "Email: ")
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	// Подтверждение нужно только при ручном вводе
	if !c.passwordFromEnvOrFile() {
		confirm, err := c.readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	session, err := c.authService.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	c.io.Println("✓ Registration successful!")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("User ID: %d\n", session.UserID)
	c.io.Println("You are now logged in.")

	return nil
}

func (c *Cli) passwordFromEnvOrFile() bool {
	return c.passwordFile != "" || os.Getenv(PasswordEnv) != ""
}
