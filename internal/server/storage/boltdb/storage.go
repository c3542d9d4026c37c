// Package boltdb implements storage.RevocationStorage on top of an
// embedded BoltDB file, for deployments that keep the token blacklist
// out of the main database.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/usersauth/internal/models"
)

var bucketRevoked = []byte("revoked_tokens")

// Storage represents BoltDB revocation storage
type Storage struct {
	db *bbolt.DB
}

// revocationRecord хранится как значение, ключом служит сам токен
type revocationRecord struct {
	RevokedAt int64 `json:"revoked_at"`
	ExpiresAt int64 `json:"expires_at"`
}

// New opens (or creates) the BoltDB file at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRevoked); err != nil {
			return fmt.Errorf("failed to create revoked tokens bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database file
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// RevokeToken adds token to the blacklist
func (s *Storage) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevoked)
		key := []byte(token.Token)

		// Повторный отзыв не перезаписывает исходную запись
		if bucket.Get(key) != nil {
			return nil
		}

		data, err := json.Marshal(revocationRecord{
			RevokedAt: token.RevokedAt.Unix(),
			ExpiresAt: token.ExpiresAt.Unix(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal revocation: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save revocation: %w", err)
		}

		return nil
	})
}

// IsTokenRevoked reports whether exactly this token string was revoked
func (s *Storage) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var revoked bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		revoked = tx.Bucket(bucketRevoked).Get([]byte(token)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return revoked, nil
}

// DeleteExpiredRevocations removes entries whose token expired at or before now
func (s *Storage) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int, error) {
	deleted := 0
	cutoff := now.Unix()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevoked)

		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var record revocationRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal revocation %q: %w", k, err)
			}
			if record.ExpiresAt <= cutoff {
				// ключи копируем: удалять во время ForEach нельзя
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete revocation: %w", err)
			}
		}

		deleted = len(expired)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
