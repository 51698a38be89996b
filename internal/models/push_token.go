package models

import "time"

// PushToken is a registered Expo push-notification token. Dispatch lives
// outside this service; we only keep the registry.
type PushToken struct {
	Token     string    `gorm:"primaryKey;size:255" json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}
