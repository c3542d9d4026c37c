package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/usersauth/internal/models"
)

// RevokeToken adds token to the blacklist
func (s *Storage) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	// Повторный отзыв того же токена не ошибка
	query := `
		INSERT INTO revoked_tokens (token, revoked_at, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT (token) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		token.Token,
		token.RevokedAt.Unix(),
		token.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether exactly this token string was revoked
func (s *Storage) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = ?)`

	var revoked bool
	if err := s.db.QueryRowContext(ctx, query, token).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return revoked, nil
}

// DeleteExpiredRevocations removes entries whose token expired at or before now
func (s *Storage) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at <= ?`

	result, err := s.db.ExecContext(ctx, query, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
