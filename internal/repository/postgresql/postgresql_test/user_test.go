package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	created := createUser(t, db, "budi@example.com")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.DefaultFullName, created.DisplayName())

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Email: "budi@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, "budi@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		exists, err := repo.ExistsByEmail(ctx, "budi@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("profile and photo", func(t *testing.T) {
		updated, err := repo.UpdateProfile(ctx, created.ID, user.UpdateProfileRequest{FullName: "Budi Santoso", Position: "Engineer", NIK: "3201"})
		require.NoError(t, err)
		assert.Equal(t, "Budi Santoso", updated.DisplayName())
		assert.Equal(t, "3201", updated.DisplayNIK())

		withPhoto, err := repo.UpdatePhotoURL(ctx, created.ID, "http://localhost/uploads/a.jpg")
		require.NoError(t, err)
		require.NotNil(t, withPhoto.PhotoURL)
		assert.Equal(t, "http://localhost/uploads/a.jpg", *withPhoto.PhotoURL)
	})

	t.Run("password for unknown user", func(t *testing.T) {
		err := repo.UpdatePassword(ctx, "00000000-0000-0000-0000-000000000000", "x")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestRefreshTokenRepository(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewRefreshTokenRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "siti@example.com")

	expires := time.Now().Add(time.Hour).Unix()
	require.NoError(t, repo.CreateRefreshToken(ctx, u.ID, "token-a", expires, auth.SessionTrackingRequest{UserAgent: "test"}))
	require.NoError(t, repo.CreateRefreshToken(ctx, u.ID, "token-b", expires, auth.SessionTrackingRequest{}))

	revoked, err := repo.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "token-a"))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, repo.RevokeAllForUser(ctx, u.ID))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.True(t, revoked)
}
