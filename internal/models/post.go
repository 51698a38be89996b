package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Photo       []byte     `gorm:"type:bytea" json:"-"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	AlbumID     *uuid.UUID `gorm:"type:uuid;index" json:"albumId"`
	LocationID  *uuid.UUID `gorm:"type:uuid;index" json:"locationId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
