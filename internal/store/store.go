// Package store holds the durable record of lobbies, memberships and users.
//
// Every mutation that touches a single lobby runs in one storage transaction, so the
// lobby row and its membership rows always change together. Callers that need the
// check-then-act sequences of the join algorithm to be atomic must hold the lobby's
// exclusion section (see package guard) around the calls.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
)

// MaxPlayersCeiling bounds max_players for every game.
const MaxPlayersCeiling = 100

// ListFilter selects lobbies for listing. The zero value selects every active lobby.
type ListFilter struct {
	Game            models.Game
	IncludeInactive bool
}

func (f ListFilter) match(l models.Lobby) bool {
	if !f.IncludeInactive && !l.IsActive {
		return false
	}
	return f.Game == "" || l.Game == f.Game
}

// Store is the lobby store contract shared by the in-memory and SQL backends.
type Store interface {
	// CreateLobby inserts the lobby and its host membership in one transaction.
	// A nil lobby.ID is replaced by a fresh one; CreatedAt and IsActive are always assigned.
	CreateLobby(ctx context.Context, lobby models.Lobby) (models.Lobby, error)
	// GetLobby returns NotFound for missing and inactive lobbies alike.
	GetLobby(ctx context.Context, id uuid.UUID) (models.Lobby, error)
	UpdateLobby(ctx context.Context, id uuid.UUID, patch models.LobbyPatch, actor uuid.UUID) (models.Lobby, error)
	// DeactivateLobby soft-deletes the lobby and drops its memberships. The returned flag
	// is false when the lobby was already inactive.
	DeactivateLobby(ctx context.Context, id uuid.UUID, actor uuid.UUID) (models.Lobby, bool, error)
	// TransferHost makes newHost, who must be a member, the host and removes the previous
	// host's membership in the same transaction.
	TransferHost(ctx context.Context, id uuid.UUID, newHost uuid.UUID) (models.Lobby, error)
	PurgeInactive(ctx context.Context, deactivatedBefore time.Time) (int, error)

	AddMembership(ctx context.Context, lobbyID, userID uuid.UUID) (models.Membership, error)
	// RemoveMembership reports whether a membership was actually removed.
	RemoveMembership(ctx context.Context, lobbyID, userID uuid.UUID) (bool, error)
	CountMembers(ctx context.Context, lobbyID uuid.UUID) (int, error)
	ListMembers(ctx context.Context, lobbyID uuid.UUID) ([]models.Member, error)

	// ListLobbies returns lobbies ordered by created_at descending.
	ListLobbies(ctx context.Context, filter ListFilter) ([]models.Lobby, error)
	// Snapshot returns lobbies with member counts and host nicknames read from a single
	// point-in-time view, ordered by created_at descending.
	Snapshot(ctx context.Context, filter ListFilter) ([]models.LobbySummary, error)

	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)

	Close() error
}

// ValidateLobby checks the invariants every stored lobby must satisfy.
func ValidateLobby(l models.Lobby) error {
	if strings.TrimSpace(l.Title) == "" {
		return apperr.InvalidArg("title is required")
	}
	if !l.Game.Valid() {
		return apperr.InvalidArg("unsupported game")
	}
	if l.MaxPlayers <= 0 || l.MaxPlayers > MaxPlayersCeiling {
		return apperr.InvalidArg("max_players must be between 1 and 100")
	}
	if l.IsPrivate && l.PasswordHash == "" {
		return apperr.ErrPasswordRequired
	}
	if !l.IsPrivate && l.PasswordHash != "" {
		return apperr.ErrPasswordNotAllowed
	}
	return nil
}

// clock hands out strictly increasing timestamps at microsecond precision,
// the finest resolution postgres keeps.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := time.Now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
