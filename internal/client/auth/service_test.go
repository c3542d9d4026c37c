package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/usersauth/internal/client/api"
	"github.com/iudanet/usersauth/internal/client/storage"
	"github.com/iudanet/usersauth/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/usersauth/pkg/api"
)

var errNetwork = errors.New("connection refused")

// fakeAPI запоминает запросы и отвечает заданными значениями
type fakeAPI struct {
	user        *pkgapi.User
	loginErr    error
	logoutErr   error
	statusErr   error
	lastLogin   pkgapi.LoginRequest
	lastLogout  string
	token       string
	logoutCalls int
}

func (f *fakeAPI) Register(ctx context.Context, req pkgapi.RegisterRequest) (string, error) {
	f.user = &pkgapi.User{ID: 1, Username: req.Username, Email: req.Email, Active: true}
	return f.token, nil
}

func (f *fakeAPI) Login(ctx context.Context, req pkgapi.LoginRequest) (string, error) {
	f.lastLogin = req
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	f.lastLogout = token
	return f.logoutErr
}

func (f *fakeAPI) Status(ctx context.Context, token string) (*pkgapi.User, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.user, nil
}

func (f *fakeAPI) BaseURL() string {
	return "http://localhost:5000"
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("client-test"))
	require.NoError(t, err)
	return token
}

func newTestService(t *testing.T, client *fakeAPI) (*AuthService, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(client, store, logger), store
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	client := &fakeAPI{token: signedToken(t, exp)}
	svc, store := newTestService(t, client)

	session, err := svc.Register(ctx, "testuser", "user@test.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "testuser", session.Username)
	assert.Equal(t, "user@test.com", session.Email)
	assert.Equal(t, "http://localhost:5000", session.ServerURL)
	assert.True(t, exp.Equal(session.ExpiresAt))

	saved, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.token, saved.Token)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, &fakeAPI{token: "x"})

	_, err := svc.Register(ctx, "ab", "not-an-email", "1")
	assert.Error(t, err)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestAuthService_Login_Identifier(t *testing.T) {
	tests := []struct {
		name         string
		identifier   string
		wantEmail    string
		wantUsername string
	}{
		{name: "email", identifier: "test@test.com", wantEmail: "test@test.com"},
		{name: "username", identifier: "test", wantUsername: "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeAPI{
				token: "not-a-jwt",
				user:  &pkgapi.User{ID: 3, Username: "test", Email: "test@test.com"},
			}
			svc, _ := newTestService(t, client)

			session, err := svc.Login(context.Background(), tt.identifier, "123456")
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, client.lastLogin.Email)
			assert.Equal(t, tt.wantUsername, client.lastLogin.Username)
			assert.Equal(t, int64(3), session.UserID)
			// срок неизвестен для токена, который не удалось разобрать
			assert.True(t, session.ExpiresAt.IsZero())
		})
	}
}

func TestAuthService_Login_Failure(t *testing.T) {
	ctx := context.Background()
	client := &fakeAPI{loginErr: &api.APIError{StatusCode: http.StatusNotFound, Message: "User does not exist."}}
	svc, store := newTestService(t, client)

	_, err := svc.Login(ctx, "nobody@test.com", "123456")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("not authenticated", func(t *testing.T) {
		client := &fakeAPI{}
		svc, _ := newTestService(t, client)

		assert.ErrorIs(t, svc.Logout(ctx), ErrNotAuthenticated)
		assert.Zero(t, client.logoutCalls)
	})

	t.Run("success", func(t *testing.T) {
		client := &fakeAPI{token: "token-1", user: &pkgapi.User{ID: 1}}
		svc, store := newTestService(t, client)
		_, err := svc.Login(ctx, "test", "123456")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx))
		assert.Equal(t, "token-1", client.lastLogout)

		_, err = store.GetSession(ctx)
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})

	t.Run("expired token still clears session", func(t *testing.T) {
		client := &fakeAPI{token: "token-1", user: &pkgapi.User{ID: 1}}
		svc, store := newTestService(t, client)
		_, err := svc.Login(ctx, "test", "123456")
		require.NoError(t, err)

		client.logoutErr = &api.APIError{StatusCode: http.StatusUnauthorized, Message: "Signature expired. Please log in again."}
		require.NoError(t, svc.Logout(ctx))

		_, err = store.GetSession(ctx)
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})

	t.Run("network error keeps session", func(t *testing.T) {
		client := &fakeAPI{token: "token-1", user: &pkgapi.User{ID: 1}}
		svc, store := newTestService(t, client)
		_, err := svc.Login(ctx, "test", "123456")
		require.NoError(t, err)

		client.logoutErr = errNetwork
		assert.ErrorIs(t, svc.Logout(ctx), errNetwork)

		_, err = store.GetSession(ctx)
		assert.NoError(t, err)
	})
}

func TestAuthService_StatusAndToken(t *testing.T) {
	ctx := context.Background()
	client := &fakeAPI{token: "token-1", user: &pkgapi.User{ID: 1, Username: "test"}}
	svc, _ := newTestService(t, client)

	_, _, err := svc.Status(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.Token(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Login(ctx, "test", "123456")
	require.NoError(t, err)

	token, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	session, user, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", user.Username)
	assert.Equal(t, "token-1", session.Token)

	client.statusErr = errNetwork
	session, user, err = svc.Status(ctx)
	assert.ErrorIs(t, err, errNetwork)
	assert.NotNil(t, session)
	assert.Nil(t, user)
}
