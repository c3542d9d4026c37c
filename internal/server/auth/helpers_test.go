package auth

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/storage"
	"github.com/iudanet/usersauth/internal/server/token"
)

const testSecret = "test-secret"

// memUserStorage is an in-memory UserStorage for testing
type memUserStorage struct {
	users    map[int64]*models.User
	getError error
	nextID   int64
	mu       sync.Mutex
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[int64]*models.User)}
}

func (m *memUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserStorage) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *memUserStorage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == userID })
}

func (m *memUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *memUserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *memUserStorage) SetUserActive(ctx context.Context, userID int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (m *memUserStorage) delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

// memRevocations is an in-memory RevocationStorage for testing
type memRevocations struct {
	tokens   map[string]time.Time // token -> expires_at
	checkErr error
	mu       sync.Mutex
}

func newMemRevocations() *memRevocations {
	return &memRevocations{tokens: make(map[string]time.Time)}
}

func (m *memRevocations) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.Token]; !ok {
		m.tokens[token.Token] = token.ExpiresAt
	}
	return nil
}

func (m *memRevocations) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return false, m.checkErr
	}
	_, ok := m.tokens[token]
	return ok, nil
}

func (m *memRevocations) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return 0, m.checkErr
	}
	deleted := 0
	for tok, exp := range m.tokens {
		if !exp.After(now) {
			delete(m.tokens, tok)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memRevocations) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// testClock is a manually advanced clock
type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type gateFixture struct {
	gate        *Gate
	codec       *token.Codec
	users       *memUserStorage
	revocations *memRevocations
	clock       *testClock
}

func newGateFixture(t *testing.T, ttl time.Duration) *gateFixture {
	t.Helper()

	clock := newTestClock()
	users := newMemUserStorage()
	revocations := newMemRevocations()

	codec, err := token.NewCodec(testSecret, ttl)
	require.NoError(t, err)

	creds, err := NewCredentials(users, WithClock(clock.Now), WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	return &gateFixture{
		gate:        NewGate(creds, codec, users, revocations, WithClock(clock.Now)),
		codec:       codec,
		users:       users,
		revocations: revocations,
		clock:       clock,
	}
}

var errStorageDown = errors.New("storage unavailable")
