package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
)

func newTestUser(username string) *models.User {
	now := time.Now().Truncate(time.Millisecond)
	return &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, alice))

	tests := []struct {
		wantError error
		user      *models.User
		name      string
	}{
		{
			name: "create another user",
			user: newTestUser("bob"),
		},
		{
			name:      "duplicate username",
			user:      newTestUser("alice"),
			wantError: storage.ErrUserAlreadyExists,
		},
		{
			name: "username is case-sensitive",
			user: newTestUser("Alice"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := s.GetUserByID(ctx, tt.user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.user.Username, got.Username)
		})
	}
}

func TestUserStorage_DuplicateLeavesSingleRow(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, newTestUser("alice")))
	require.ErrorIs(t, s.CreateUser(ctx, newTestUser("alice")), storage.ErrUserAlreadyExists)

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, "alice").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserStorage_GetUserByUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	t.Run("existing user", func(t *testing.T) {
		got, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)

		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)
		assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, user.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("wrong case", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "ALICE")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestUserStorage_GetUserByID_NotFound(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UserExists(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, newTestUser("alice")))

	exists, err := s.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.UserExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserStorage_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.False(t, got.UpdatedAt.Before(user.UpdatedAt))

	err = s.UpdatePasswordHash(ctx, uuid.New().String(), "hash")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
