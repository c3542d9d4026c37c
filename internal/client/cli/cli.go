package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/usersauth/internal/client/auth"
	"github.com/iudanet/usersauth/internal/client/iocli"
	"github.com/iudanet/usersauth/pkg/api"
)

// PasswordEnv переменная окружения с паролем для неинтерактивного запуска
const PasswordEnv = "USERSAUTH_PASSWORD"

//go:generate moq -out users_mock.go . UsersClient

// UsersClient is the part of the server API behind the users commands
type UsersClient interface {
	CreateUser(ctx context.Context, token string, req api.CreateUserRequest) (string, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	GetUser(ctx context.Context, id int64) (*api.User, error)
}

type Cli struct {
	io           iocli.IO
	authService  auth.Service
	users        UsersClient
	now          func() time.Time
	passwordFile string
}

func New(io iocli.IO, authService auth.Service, users UsersClient, passwordFile string) *Cli {
	return &Cli{
		io:           io,
		authService:  authService,
		users:        users,
		now:          time.Now,
		passwordFile: passwordFile,
	}
}

// readPassword получает пароль из источников в порядке приоритета:
// 1. Переменная окружения USERSAUTH_PASSWORD
// 2. Файл --password-file
// 3. Интерактивный ввод без эха
func (c *Cli) readPassword(prompt string) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if c.passwordFile != "" {
		content, err := os.ReadFile(c.passwordFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// inputOrPrompt возвращает value, если оно задано флагом, иначе спрашивает
func (c *Cli) inputOrPrompt(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	input, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return input, nil
}

func (c *Cli) printUser(user *api.User) {
	c.io.Printf("ID:         %d\n", user.ID)
	c.io.Printf("Username:   %s\n", user.Username)
	c.io.Printf("Email:      %s\n", user.Email)
	c.io.Printf("Active:     %t\n", user.Active)
	c.io.Printf("Created at: %s\n", user.CreatedAt.Format(time.RFC3339))
}
