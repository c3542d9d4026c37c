package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/usersauth/pkg/api"
)

func (c *Cli) runUsersAdd(ctx context.Context, username, email string) error {
	token, err := c.authService.Token(ctx)
	if err != nil {
		return err
	}

	username, err = c.inputOrPrompt(username, "Username: ")
	if err != nil {
		return err
	}
	email, err = c.inputOrPrompt(email, "Email: ")
	if err != nil {
		return err
	}
	password, err := c.readPassword("Password for new user: ")
	if err != nil {
		return err
	}

	message, err := c.users.CreateUser(ctx, token, api.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	c.io.Printf("✓ %s\n", message)
	return nil
}

func (c *Cli) runUsersList(ctx context.Context) error {
	users, err := c.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	c.io.Println("=== Users ===")
	c.io.Println()

	if len(users) == 0 {
		c.io.Println("No users found.")
		return nil
	}

	for _, user := range users {
		status := "active"
		if !user.Active {
			status = "inactive"
		}
		c.io.Printf("%6d  %-32s  %-40s  %s\n", user.ID, user.Username, user.Email, status)
	}
	c.io.Println()
	c.io.Printf("Total: %d\n", len(users))

	return nil
}

func (c *Cli) runUsersGet(ctx context.Context, id int64) error {
	user, err := c.users.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	c.printUser(user)
	return nil
}
