// Package token issues and decodes signed bearer tokens.
//
// Tokens are HS256 JWTs carrying the subject id, issue time, expiry and a
// random token id. Claims are readable by anyone holding the token; the
// signature only makes them tamper-evident.
//
// The registered iat/exp claims are whole seconds (exp rounded up) so that
// generic JWT tooling still reads them. Expiry itself is decided on the
// nanosecond iat_ns/exp_ns claims.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformed означает, что токен не удалось разобрать или подпись не сошлась
	ErrMalformed = errors.New("token is malformed")

	// ErrExpired означает, что подпись верна, но срок действия истек
	ErrExpired = errors.New("token is expired")
)

// Issuer is written into the iss claim
const Issuer = "usersauth"

// Claims is the decoded content of a token
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string // jti, делает токены уникальными даже в пределах одной секунды
	SubjectID int64
}

// jwtClaims is the wire form of Claims
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID        int64 `json:"user_id"`
	IssuedAtNano  int64 `json:"iat_ns"`
	ExpiresAtNano int64 `json:"exp_ns"`
}

// Codec подписывает и проверяет токены общим секретом с фиксированным TTL
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a new token codec
// secret should be a cryptographically secure random string
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// TTL returns the lifetime of issued tokens
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue создает подписанный токен для subjectID, действующий до now+TTL
func (c *Codec) Issue(subjectID int64, now time.Time) (string, error) {
	expiresAt := now.Add(c.ttl)

	claims := jwtClaims{
		UserID:        subjectID,
		IssuedAtNano:  now.UnixNano(),
		ExpiresAtNano: expiresAt.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(subjectID, 10),
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(now),
			// NumericDate усекает до секунды, поэтому exp округляем вверх:
			// библиотека не должна отклонить токен раньше exp_ns
			ExpiresAt: jwt.NewNumericDate(ceilSecond(expiresAt)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode проверяет подпись и срок действия токена на момент now.
// Returns ErrMalformed or ErrExpired; the two are never both reported.
func (c *Codec) Decode(tokenString string, now time.Time) (*Claims, error) {
	parsed := &jwtClaims{}

	_, err := jwt.ParseWithClaims(tokenString, parsed,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		// Подпись проверяется до claims, поэтому поддельный токен никогда не
		// дойдет до проверки срока
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if parsed.IssuedAtNano == 0 || parsed.ExpiresAtNano == 0 {
		return nil, fmt.Errorf("%w: missing iat_ns or exp_ns", ErrMalformed)
	}

	expiresAt := time.Unix(0, parsed.ExpiresAtNano).UTC()
	if !now.Before(expiresAt) {
		return nil, fmt.Errorf("%w: %w", ErrExpired, jwt.ErrTokenExpired)
	}

	return &Claims{
		SubjectID: parsed.UserID,
		IssuedAt:  time.Unix(0, parsed.IssuedAtNano).UTC(),
		ExpiresAt: expiresAt,
		ID:        parsed.ID,
	}, nil
}

func ceilSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Before(t) {
		return truncated.Add(time.Second)
	}
	return truncated
}
