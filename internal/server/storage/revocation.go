package storage

import (
	"context"
	"time"

	"github.com/iudanet/usersauth/internal/models"
)

// RevocationStorage defines interface for the token blacklist
type RevocationStorage interface {
	// RevokeToken adds token to the blacklist
	// Revoking an already revoked token is not an error
	RevokeToken(ctx context.Context, token *models.RevokedToken) error

	// IsTokenRevoked reports whether exactly this token string was revoked
	IsTokenRevoked(ctx context.Context, token string) (bool, error)

	// DeleteExpiredRevocations removes entries whose token expired at or before now
	// Returns number of deleted entries
	DeleteExpiredRevocations(ctx context.Context, now time.Time) (int, error)
}
