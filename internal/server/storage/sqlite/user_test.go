package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createdAt := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	user := &models.User{
		Username:     "testuser",
		Email:        "user@test.com",
		PasswordHash: "hash123",
		Active:       true,
		CreatedAt:    createdAt,
	}

	err := s.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, user.ID, "ID должен быть присвоен базой")

	retrieved, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, "testuser", retrieved.Username)
	assert.Equal(t, "user@test.com", retrieved.Email)
	assert.Equal(t, "hash123", retrieved.PasswordHash)
	assert.True(t, retrieved.Active)
	assert.True(t, createdAt.Equal(retrieved.CreatedAt), "created_at: %s", retrieved.CreatedAt)

	second := createTestUser(t, ctx, s, "another")
	assert.Greater(t, second.ID, user.ID)
}

func TestUserStorage_CreateUser_Duplicates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		user *models.User
	}{
		{
			name: "same email different username",
			user: &models.User{Username: "other", Email: "user@test.com", PasswordHash: "h", Active: true, CreatedAt: time.Now()},
		},
		{
			name: "same username different email",
			user: &models.User{Username: "testuser", Email: "other@test.com", PasswordHash: "h", Active: true, CreatedAt: time.Now()},
		},
		{
			name: "same username and email",
			user: &models.User{Username: "testuser", Email: "user@test.com", PasswordHash: "h", Active: true, CreatedAt: time.Now()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cleanup := setupTestStorage(t)
			defer cleanup()

			existing := &models.User{Username: "testuser", Email: "user@test.com", PasswordHash: "h", Active: true, CreatedAt: time.Now()}
			require.NoError(t, s.CreateUser(ctx, existing))

			err := s.CreateUser(ctx, tt.user)
			assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

			// Неудачная вставка не должна оставлять следов
			users, err := s.ListUsers(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestUserStorage_CreateUser_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	const attempts = 8

	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := &models.User{
				Username:     "racer" + string(rune('a'+i)),
				Email:        "race@test.com",
				PasswordHash: "hash",
				Active:       true,
				CreatedAt:    time.Now(),
			}
			errs <- s.CreateUser(ctx, user)
		}(i)
	}

	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, storage.ErrUserAlreadyExists):
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, "race@test.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserStorage_GetUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, ctx, s, "findme")

	tests := []struct {
		lookup    func() (*models.User, error)
		wantError error
		name      string
	}{
		{
			name:   "by id",
			lookup: func() (*models.User, error) { return s.GetUserByID(ctx, user.ID) },
		},
		{
			name:   "by email",
			lookup: func() (*models.User, error) { return s.GetUserByEmail(ctx, "findme@test.com") },
		},
		{
			name:   "by username",
			lookup: func() (*models.User, error) { return s.GetUserByUsername(ctx, "findme") },
		},
		{
			name:      "unknown id",
			lookup:    func() (*models.User, error) { return s.GetUserByID(ctx, 999) },
			wantError: storage.ErrUserNotFound,
		},
		{
			name:      "unknown email",
			lookup:    func() (*models.User, error) { return s.GetUserByEmail(ctx, "nobody@test.com") },
			wantError: storage.ErrUserNotFound,
		},
		{
			name:      "unknown username",
			lookup:    func() (*models.User, error) { return s.GetUserByUsername(ctx, "nobody") },
			wantError: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, "findme", got.Username)
		})
	}
}

func TestUserStorage_ListUsers_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	old := &models.User{
		Username:     "edi",
		Email:        "edi@repodevs.com",
		PasswordHash: "hash",
		Active:       true,
		CreatedAt:    time.Now().Add(-30 * 24 * time.Hour),
	}
	require.NoError(t, s.CreateUser(ctx, old))
	createTestUser(t, ctx, s, "santoso")

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "santoso", users[0].Username)
	assert.Equal(t, "edi", users[1].Username)
}

func TestUserStorage_SetUserActive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, ctx, s, "toggle")

	require.NoError(t, s.SetUserActive(ctx, user.ID, false))
	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, s.SetUserActive(ctx, user.ID, true))
	got, err = s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	err = s.SetUserActive(ctx, 999, false)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
