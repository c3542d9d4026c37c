package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/handlers"
)

// Authorizer resolves an Authorization header into a session
type Authorizer interface {
	Authorize(ctx context.Context, header string) (*auth.Session, error)
}

// AuthMiddleware создает middleware для проверки bearer токена
// При успехе сессия кладется в контекст запроса
func AuthMiddleware(logger *slog.Logger, authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authorizer.Authorize(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				handlers.WriteAuthError(w, logger, err)
				return
			}

			logger.Debug("User authenticated", slog.Int64("user_id", session.User.ID))

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(handlers.WithSession(r.Context(), session)))
		})
	}
}
