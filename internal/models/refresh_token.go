package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a whitelist entry for one issued refresh token. The primary
// key is the jti claim embedded in the token itself, so a presented token maps
// directly to its row. Rows are never deleted; revocation flips Revoked and
// keeps the row as an audit record.
type RefreshToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HashedToken string    `gorm:"size:128;not null" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Revoked     bool      `gorm:"not null;default:false" json:"revoked"`
	CreatedAt   time.Time `json:"createdAt"`
}
