package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/storage/sqlite"
	"github.com/iudanet/usersauth/internal/server/token"
)

var errStorageDown = errors.New("storage unavailable")

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// testClock is a manually advanced clock
type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store *sqlite.Storage
	gate  *auth.Gate
	clock *testClock
	auth  *AuthHandler
	users *UsersHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store, err := sqlite.New(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	clock := &testClock{now: time.Now().Truncate(time.Second)}

	codec, err := token.NewCodec("handlers-test-secret", time.Hour)
	require.NoError(t, err)

	creds, err := auth.NewCredentials(store, auth.WithClock(clock.Now), auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	gate := auth.NewGate(creds, codec, store, store, auth.WithClock(clock.Now))
	logger := setupTestLogger()

	return &fixture{
		store: store,
		gate:  gate,
		clock: clock,
		auth:  NewAuthHandler(logger, gate),
		users: NewUsersHandler(logger, creds, store),
	}
}

// addUser регистрирует пользователя и возвращает сессию для него
func (f *fixture) addUser(t *testing.T, username, email, password string) *auth.Session {
	t.Helper()

	ctx := context.Background()
	_, tokenString, err := f.gate.Register(ctx, username, email, password)
	require.NoError(t, err)

	session, err := f.gate.Authorize(ctx, "Bearer "+tokenString)
	require.NoError(t, err)

	return session
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

// failingAuthenticator returns err from every call
type failingAuthenticator struct {
	err error
}

func (f failingAuthenticator) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	return nil, "", f.err
}

func (f failingAuthenticator) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	return nil, "", f.err
}

func (f failingAuthenticator) Revoke(ctx context.Context, session *auth.Session) error {
	return f.err
}
