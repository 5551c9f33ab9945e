package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the relation of a user currently belonging to a lobby.
// The primary key is a composite of (LobbyID, UserID) to ensure uniqueness.
type Membership struct {
	LobbyID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"lobby_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

// Member is a membership joined with the member's public profile.
type Member struct {
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joined_at"`
}
