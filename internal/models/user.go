package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a player account. Nickname doubles as the host display name.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nickname     string    `gorm:"size:255;uniqueIndex;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
