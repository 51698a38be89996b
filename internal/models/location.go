package models

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Longitude string    `gorm:"size:50;not null" json:"longitude"`
	Latitude  string    `gorm:"size:50;not null" json:"latitude"`
	CreatedAt time.Time `json:"createdAt"`
}
