// Package auth implements the identity and authorization core:
// credential registration and verification, bearer token authorization
// with revocation, and background compaction of the revocation list.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/storage"
	"github.com/iudanet/usersauth/internal/server/token"
)

const bearerPrefix = "Bearer "

// TokenCodec issues and decodes signed session tokens
type TokenCodec interface {
	Issue(subjectID int64, now time.Time) (string, error)
	Decode(tokenString string, now time.Time) (*token.Claims, error)
}

// Session is the result of a successful authorization
type Session struct {
	User   *models.User
	Claims *token.Claims
	Token  string
}

// Gate ties credentials, tokens and revocation together
type Gate struct {
	credentials *Credentials
	codec       TokenCodec
	users       storage.UserStorage
	revocations storage.RevocationStorage
	clock       func() time.Time
	logger      *slog.Logger
}

// NewGate creates a new authorization gate
func NewGate(
	credentials *Credentials,
	codec TokenCodec,
	users storage.UserStorage,
	revocations storage.RevocationStorage,
	opts ...Option,
) *Gate {
	o := newOptions(opts)

	return &Gate{
		credentials: credentials,
		codec:       codec,
		users:       users,
		revocations: revocations,
		clock:       o.clock,
		logger:      o.logger,
	}
}

// Register creates a new identity and issues its first token
func (g *Gate) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	user, err := g.credentials.Register(ctx, username, email, password)
	if err != nil {
		return nil, "", err
	}

	tokenString, err := g.codec.Issue(user.ID, g.clock())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	g.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))

	return user, tokenString, nil
}

// Login verifies credentials and issues a token for an active identity
func (g *Gate) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	user, err := g.credentials.Verify(ctx, identifier, password)
	if err != nil {
		return nil, "", err
	}

	if !user.Active {
		g.logger.WarnContext(ctx, "login rejected: inactive account", slog.Int64("user_id", user.ID))
		return nil, "", ErrAccountInactive
	}

	tokenString, err := g.codec.Issue(user.ID, g.clock())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	g.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return user, tokenString, nil
}

// Authorize checks an Authorization header value and resolves the session.
// Rejections are returned as *RejectError; any other error is a storage failure.
func (g *Gate) Authorize(ctx context.Context, header string) (*Session, error) {
	// Unpresented -> Decoding
	tokenString, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || tokenString == "" {
		return nil, reject(StateMalformed, ErrTokenMalformed, errors.New("missing bearer token"))
	}

	// Decoding -> Decoded
	claims, err := g.codec.Decode(tokenString, g.clock())
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, reject(StateExpired, ErrTokenExpired, err)
		}
		return nil, reject(StateMalformed, ErrTokenMalformed, err)
	}

	// RevocationCheck
	revoked, err := g.revocations.IsTokenRevoked(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, reject(StateRevoked, ErrTokenRevoked, nil)
	}

	// IdentityLookup
	user, err := g.users.GetUserByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, reject(StateNotFound, ErrAccountNotFound, nil)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Active {
		return nil, reject(StateInactive, ErrAccountInactive, nil)
	}

	return &Session{User: user, Claims: claims, Token: tokenString}, nil
}

// Revoke blacklists the session token until its own expiry; repeated calls are no-ops
func (g *Gate) Revoke(ctx context.Context, session *Session) error {
	revoked := &models.RevokedToken{
		Token:     session.Token,
		RevokedAt: g.clock(),
		ExpiresAt: session.Claims.ExpiresAt,
	}

	if err := g.revocations.RevokeToken(ctx, revoked); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	g.logger.InfoContext(ctx, "token revoked", slog.Int64("user_id", session.User.ID))

	return nil
}

// Credentials returns the underlying credential store
func (g *Gate) Credentials() *Credentials {
	return g.credentials
}
