package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/denizocal/photostream/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrConflict = errors.New("record already exists")
	ErrNotFound = errors.New("record not found")
)

// Whitelist persists issued refresh tokens keyed by their jti. It is the only
// shared mutable state in the auth subsystem; all cross-request coordination
// happens through it.
type Whitelist struct {
	db *gorm.DB
}

func NewWhitelist(db *gorm.DB) *Whitelist {
	return &Whitelist{db: db}
}

// Put records a freshly issued refresh token. The jti is the primary key, so
// a duplicate insert fails with ErrConflict.
func (w *Whitelist) Put(ctx context.Context, jti uuid.UUID, hashedToken string, userID uuid.UUID) (*models.RefreshToken, error) {
	entry := models.RefreshToken{
		ID:          jti,
		HashedToken: hashedToken,
		UserID:      userID,
	}
	if err := w.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &entry, nil
}

func (w *Whitelist) Get(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error) {
	var entry models.RefreshToken
	if err := w.db.WithContext(ctx).First(&entry, "id = ?", jti).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	return &entry, nil
}

// Revoke flips the revoked flag in a single conditional UPDATE. The returned
// bool reports whether this call did the flip: when concurrent rotations race
// on the same jti, exactly one caller sees true. Calling it on an already
// revoked entry is a no-op.
func (w *Whitelist) Revoke(ctx context.Context, jti uuid.UUID) (bool, error) {
	res := w.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", jti, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RevokeAll revokes every active refresh token owned by userID and returns
// how many entries were affected.
func (w *Whitelist) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := w.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
