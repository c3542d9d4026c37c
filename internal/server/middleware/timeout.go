package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware ограничивает время жизни контекста запроса
// Все обращения к хранилищу получают этот контекст и прерываются по дедлайну
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
