package models

import (
	"time"

	"github.com/google/uuid"
)

// Lobby represents a squad advertisement that players can join.
// Member counts are never stored here; they are derived from Membership rows.
type Lobby struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	HostID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"host_id"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Description      string           `json:"description"`
	Game             Game             `gorm:"size:32;not null;index" json:"game"`
	Mode             string           `gorm:"size:64;not null" json:"mode"`
	MaxPlayers       int              `gorm:"not null" json:"max_players"`
	SkillLevel       SkillLevel       `gorm:"size:32;not null" json:"skill_level"`
	Language         string           `gorm:"size:64" json:"language"`
	Region           string           `gorm:"size:64" json:"region"`
	GenderPreference GenderPreference `gorm:"size:32;not null" json:"gender_preference"`
	VoiceChat        bool             `gorm:"not null" json:"voice_chat"`
	IsPrivate        bool             `gorm:"not null" json:"is_private"`
	PasswordHash     string           `gorm:"size:255" json:"-"`
	IsActive         bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeactivatedAt    *time.Time       `gorm:"index" json:"-"`

	Memberships []Membership `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE" json:"-"`
}

// LobbyPatch carries the host-editable fields of a Lobby. Nil fields are left untouched.
type LobbyPatch struct {
	Title            *string
	Description      *string
	Game             *Game
	Mode             *string
	MaxPlayers       *int
	SkillLevel       *SkillLevel
	Language         *string
	Region           *string
	GenderPreference *GenderPreference
	VoiceChat        *bool
	IsPrivate        *bool
	// PasswordHash replaces the stored hash when set. An empty string clears it.
	PasswordHash *string
}

// Apply returns a copy of l with the patch applied.
func (p LobbyPatch) Apply(l Lobby) Lobby {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Game != nil {
		l.Game = *p.Game
	}
	if p.Mode != nil {
		l.Mode = *p.Mode
	}
	if p.MaxPlayers != nil {
		l.MaxPlayers = *p.MaxPlayers
	}
	if p.SkillLevel != nil {
		l.SkillLevel = *p.SkillLevel
	}
	if p.Language != nil {
		l.Language = *p.Language
	}
	if p.Region != nil {
		l.Region = *p.Region
	}
	if p.GenderPreference != nil {
		l.GenderPreference = *p.GenderPreference
	}
	if p.VoiceChat != nil {
		l.VoiceChat = *p.VoiceChat
	}
	if p.IsPrivate != nil {
		l.IsPrivate = *p.IsPrivate
	}
	if p.PasswordHash != nil {
		l.PasswordHash = *p.PasswordHash
	}
	return l
}

// LobbySummary is a lobby as seen by a snapshot read, with its derived member count.
type LobbySummary struct {
	Lobby        Lobby
	MemberCount  int
	HostNickname string
}
