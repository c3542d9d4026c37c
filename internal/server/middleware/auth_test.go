package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/handlers"
	"github.com/iudanet/usersauth/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// authorizerFunc adapts a function to Authorizer
type authorizerFunc func(ctx context.Context, header string) (*auth.Session, error)

func (f authorizerFunc) Authorize(ctx context.Context, header string) (*auth.Session, error) {
	return f(ctx, header)
}

// testHandler checks that the session reached the handler
func testHandler(t *testing.T, wantUserID int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handlers.GetSession(r.Context())
		require.True(t, ok, "session should be in context")
		assert.Equal(t, wantUserID, session.User.ID)
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthMiddleware_Authorized(t *testing.T) {
	var gotHeader string
	authorizer := authorizerFunc(func(ctx context.Context, header string) (*auth.Session, error) {
		gotHeader = header
		return &auth.Session{User: &models.User{ID: 42}, Token: "token"}, nil
	})

	handler := AuthMiddleware(setupTestLogger(), authorizer)(testHandler(t, 42))

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer token", gotHeader)
}

func TestAuthMiddleware_Rejected(t *testing.T) {
	tests := []struct {
		err         error
		name        string
		wantMessage string
		wantCode    int
	}{
		{
			name:        "malformed",
			err:         &auth.RejectError{State: auth.StateMalformed, Err: auth.ErrTokenMalformed},
			wantCode:    http.StatusUnauthorized,
			wantMessage: handlers.MsgInvalidToken,
		},
		{
			name:        "expired",
			err:         &auth.RejectError{State: auth.StateExpired, Err: auth.ErrTokenExpired},
			wantCode:    http.StatusUnauthorized,
			wantMessage: handlers.MsgTokenExpired,
		},
		{
			name:        "revoked",
			err:         &auth.RejectError{State: auth.StateRevoked, Err: auth.ErrTokenRevoked},
			wantCode:    http.StatusUnauthorized,
			wantMessage: handlers.MsgInvalidToken,
		},
		{
			name:        "inactive",
			err:         &auth.RejectError{State: auth.StateInactive, Err: auth.ErrAccountInactive},
			wantCode:    http.StatusUnauthorized,
			wantMessage: handlers.MsgContactUs,
		},
		{
			name:        "storage failure",
			err:         errors.New("database is locked"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: handlers.MsgContactUs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorizer := authorizerFunc(func(ctx context.Context, header string) (*auth.Session, error) {
				return nil, tt.err
			})

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			w := httptest.NewRecorder()
			AuthMiddleware(setupTestLogger(), authorizer)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

			assert.False(t, called, "next handler must not run")
			assert.Equal(t, tt.wantCode, w.Code)

			var body api.MessageResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
