package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	ProfileName string    `gorm:"size:255;not null" json:"profileName"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}
