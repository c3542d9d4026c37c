package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/usersauth/internal/client/api"
	"github.com/iudanet/usersauth/internal/client/storage"
	"github.com/iudanet/usersauth/internal/validation"
	pkgapi "github.com/iudanet/usersauth/pkg/api"
)

// ErrNotAuthenticated означает, что локальной сессии нет
var ErrNotAuthenticated = errors.New("not authenticated, please run 'usersauth login' first")

// APIClient is the part of the server API the auth service needs
type APIClient interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (string, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
	Status(ctx context.Context, token string) (*pkgapi.User, error)
	BaseURL() string
}

// AuthService предоставляет функции авторизации
type AuthService struct {
	client   APIClient
	sessions storage.SessionStorage
	logger   *slog.Logger
}

var _ Service = (*AuthService)(nil)

// NewAuthService создает новый сервис авторизации
func NewAuthService(client APIClient, sessions storage.SessionStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*storage.Session, error) {
	// Проверяем локально теми же правилами, что и сервер
	reg := validation.Registration{Username: username, Email: email, Password: password}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	token, err := s.client.Register(ctx, pkgapi.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.saveSession(ctx, token)
}

// Login выполняет аутентификацию пользователя
// identifier содержащий '@' отправляется как email, иначе как username
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*storage.Session, error) {
	login := validation.Login{Identifier: identifier, Password: password}
	if err := login.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	req := pkgapi.LoginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	token, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.saveSession(ctx, token)
}

// saveSession запрашивает у сервера владельца токена и сохраняет сессию
func (s *AuthService) saveSession(ctx context.Context, token string) (*storage.Session, error) {
	if token == "" {
		return nil, errors.New("server returned empty token")
	}

	user, err := s.client.Status(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user status: %w", err)
	}

	session := &storage.Session{
		ServerURL: s.client.BaseURL(),
		Username:  user.Username,
		Email:     user.Email,
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: tokenExpiry(token),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Logout выполняет выход из системы
// Локальная сессия удаляется, даже если сервер уже не принимает токен
func (s *AuthService) Logout(ctx context.Context) error {
	session, err := s.session(ctx)
	if err != nil {
		return err
	}

	if err := s.client.Logout(ctx, session.Token); err != nil {
		var apiErr *api.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
			return fmt.Errorf("logout failed: %w", err)
		}
		s.logger.WarnContext(ctx, "server rejected token on logout", slog.String("message", apiErr.Message))
	}

	if err := s.sessions.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Status возвращает локальную сессию и актуальные данные пользователя
func (s *AuthService) Status(ctx context.Context) (*storage.Session, *pkgapi.User, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.client.Status(ctx, session.Token)
	if err != nil {
		return session, nil, fmt.Errorf("status failed: %w", err)
	}

	return session, user, nil
}

// Token возвращает токен текущей сессии
func (s *AuthService) Token(ctx context.Context) (string, error) {
	session, err := s.session(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *AuthService) session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// tokenExpiry читает exp из токена без проверки подписи
// Подпись проверяет сервер, клиенту срок нужен только для отображения
func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time.UTC()
}
