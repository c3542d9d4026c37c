package storage

import (
	"context"
	"time"
)

// SessionStorage defines interface for storing the login session on client
type SessionStorage interface {
	// SaveSession stores the session, replacing the previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves stored session
	// Returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes stored session (logout)
	// Returns ErrSessionNotFound if nobody is logged in
	DeleteSession(ctx context.Context) error
}

// Session is the bearer token of the logged in identity
type Session struct {
	ExpiresAt time.Time `json:"expires_at"` // exp из токена, нулевое если не удалось прочитать
	ServerURL string    `json:"server_url"` // сервер, выдавший токен
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
}

// Expired reports whether the token is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
