package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/usersauth/internal/models"
)

// RevokeToken adds token to the blacklist
func (s *Storage) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (token, revoked_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, token.Token, token.RevokedAt.UTC(), token.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether exactly this token string was revoked
func (s *Storage) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`, token).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return revoked, nil
}

// DeleteExpiredRevocations removes entries whose token expired at or before now
func (s *Storage) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
