package auth

import (
	"context"

	"github.com/iudanet/usersauth/internal/client/storage"
	"github.com/iudanet/usersauth/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for authentication operations
// It talks to the server and keeps the resulting session in local storage.
type Service interface {
	// Register регистрирует нового пользователя и сохраняет его сессию
	Register(ctx context.Context, username, email, password string) (*storage.Session, error)

	// Login выполняет вход по email или username и сохраняет сессию
	Login(ctx context.Context, identifier, password string) (*storage.Session, error)

	// Logout отзывает токен на сервере и удаляет локальную сессию
	Logout(ctx context.Context) error

	// Status возвращает локальную сессию и пользователя по версии сервера
	Status(ctx context.Context) (*storage.Session, *api.User, error)

	// Token возвращает токен текущей сессии
	// Returns ErrNotAuthenticated if nobody is logged in
	Token(ctx context.Context) (string, error)
}
