package handlers

import (
	"context"

	"github.com/iudanet/usersauth/internal/server/auth"
)

// contextKey тип для ключей контекста
type contextKey string

// SessionKey ключ для хранения авторизованной сессии в контексте
const SessionKey contextKey = "session"

// WithSession возвращает контекст с сессией
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession извлекает сессию из контекста запроса
func GetSession(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*auth.Session)
	return session, ok && session != nil
}
