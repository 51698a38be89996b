package store

import (
	"context"
	"testing"

	"github.com/denizocal/photostream/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serializes
	// concurrent writers the way Postgres row locks would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Username:    "tobyking" + uuid.NewString()[:8],
		ProfileName: "Toby King",
		Email:       uuid.NewString() + "@test.com",
		Password:    "irrelevant",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestWhitelistPutAndGet(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)
	ctx := context.Background()
	user := seedUser(t, db)

	jti := uuid.New()
	entry, err := w.Put(ctx, jti, "digest-1", user.ID)
	require.NoError(t, err)
	assert.Equal(t, jti, entry.ID)
	assert.False(t, entry.Revoked)

	got, err := w.Get(ctx, jti)
	require.NoError(t, err)
	assert.Equal(t, "digest-1", got.HashedToken)
	assert.Equal(t, user.ID, got.UserID)
}

func TestWhitelistPutDuplicateJTI(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)
	ctx := context.Background()
	user := seedUser(t, db)

	jti := uuid.New()
	_, err := w.Put(ctx, jti, "digest-1", user.ID)
	require.NoError(t, err)

	_, err = w.Put(ctx, jti, "digest-2", user.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestWhitelistGetUnknown(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)

	_, err := w.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWhitelistRevokeFlipsOnce(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)
	ctx := context.Background()
	user := seedUser(t, db)

	jti := uuid.New()
	_, err := w.Put(ctx, jti, "digest", user.ID)
	require.NoError(t, err)

	flipped, err := w.Revoke(ctx, jti)
	require.NoError(t, err)
	assert.True(t, flipped)

	// Idempotent, but only the first call reports the flip.
	flipped, err = w.Revoke(ctx, jti)
	require.NoError(t, err)
	assert.False(t, flipped)

	got, err := w.Get(ctx, jti)
	require.NoError(t, err)
	assert.True(t, got.Revoked)
}

func TestWhitelistRevokeUnknown(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)

	flipped, err := w.Revoke(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, flipped)
}

func TestWhitelistRevokeAllScopedToUser(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)
	ctx := context.Background()
	alice := seedUser(t, db)
	bob := seedUser(t, db)

	a1, a2, b1 := uuid.New(), uuid.New(), uuid.New()
	for _, put := range []struct {
		jti  uuid.UUID
		user uuid.UUID
	}{
		{a1, alice.ID}, {a2, alice.ID}, {b1, bob.ID},
	} {
		_, err := w.Put(ctx, put.jti, "digest", put.user)
		require.NoError(t, err)
	}

	count, err := w.RevokeAll(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	for _, jti := range []uuid.UUID{a1, a2} {
		got, err := w.Get(ctx, jti)
		require.NoError(t, err)
		assert.True(t, got.Revoked)
	}

	got, err := w.Get(ctx, b1)
	require.NoError(t, err)
	assert.False(t, got.Revoked, "other users' tokens must be untouched")

	// Second sweep finds nothing active.
	count, err = w.RevokeAll(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWhitelistEntriesAreNeverDeleted(t *testing.T) {
	db := setupDB(t)
	w := NewWhitelist(db)
	ctx := context.Background()
	user := seedUser(t, db)

	jti := uuid.New()
	_, err := w.Put(ctx, jti, "digest", user.ID)
	require.NoError(t, err)

	_, err = w.Revoke(ctx, jti)
	require.NoError(t, err)
	_, err = w.RevokeAll(ctx, user.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "revocation is a soft delete")
}
