package store

import (
	"context"
	"testing"
	"time"

	"squadup/backend/internal/database"
	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachStore runs fn against a fresh instance of every backend.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memdb", func(t *testing.T) {
		s, err := NewMemStore()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		db, err := database.Open(database.DriverSQLite, database.MemorySQLiteDSN(uuid.NewString()), zerolog.Nop())
		require.NoError(t, err)
		s := NewSQLStore(db)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func newLobby(host uuid.UUID) models.Lobby {
	return models.Lobby{
		HostID:           host,
		Title:            "Rank push tonight",
		Game:             models.GameCODMobile,
		Mode:             "Ranked",
		MaxPlayers:       4,
		SkillLevel:       models.SkillPro,
		Language:         "English",
		GenderPreference: models.GenderAny,
	}
}

func TestCreateLobby(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()

		t.Run("host is a member immediately", func(t *testing.T) {
			lobby, err := s.CreateLobby(ctx, newLobby(host))
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, lobby.ID)
			assert.True(t, lobby.IsActive)
			assert.False(t, lobby.CreatedAt.IsZero())

			count, err := s.CountMembers(ctx, lobby.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			members, err := s.ListMembers(ctx, lobby.ID)
			require.NoError(t, err)
			require.Len(t, members, 1)
			assert.Equal(t, host, members[0].UserID)
		})

		t.Run("keeps a preassigned id", func(t *testing.T) {
			l := newLobby(host)
			l.ID = uuid.New()
			lobby, err := s.CreateLobby(ctx, l)
			require.NoError(t, err)
			assert.Equal(t, l.ID, lobby.ID)
		})

		t.Run("private lobby without password", func(t *testing.T) {
			l := newLobby(host)
			l.IsPrivate = true
			_, err := s.CreateLobby(ctx, l)
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
		})

		t.Run("public lobby with password", func(t *testing.T) {
			l := newLobby(host)
			l.PasswordHash = "hash"
			_, err := s.CreateLobby(ctx, l)
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
		})

		t.Run("max players out of range", func(t *testing.T) {
			for _, n := range []int{0, -1, MaxPlayersCeiling + 1} {
				l := newLobby(host)
				l.MaxPlayers = n
				_, err := s.CreateLobby(ctx, l)
				assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument), "max_players=%d", n)
			}
		})
	})
}

func TestGetLobby(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		lobby, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)

		got, err := s.GetLobby(ctx, lobby.ID)
		require.NoError(t, err)
		assert.Equal(t, lobby.Title, got.Title)
		assert.Equal(t, lobby.HostID, got.HostID)
		assert.Equal(t, models.SkillPro, got.SkillLevel)

		_, err = s.GetLobby(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)

		_, _, err = s.DeactivateLobby(ctx, lobby.ID, host)
		require.NoError(t, err)
		_, err = s.GetLobby(ctx, lobby.ID)
		assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)
	})
}

func TestUpdateLobby(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		lobby, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)

		t.Run("host edits", func(t *testing.T) {
			title := "Chill customs"
			maxPlayers := 10
			updated, err := s.UpdateLobby(ctx, lobby.ID, models.LobbyPatch{Title: &title, MaxPlayers: &maxPlayers}, host)
			require.NoError(t, err)
			assert.Equal(t, title, updated.Title)
			assert.Equal(t, 10, updated.MaxPlayers)
			assert.Equal(t, lobby.ID, updated.ID)

			got, err := s.GetLobby(ctx, lobby.ID)
			require.NoError(t, err)
			assert.Equal(t, title, got.Title)
		})

		t.Run("member cannot edit", func(t *testing.T) {
			member := uuid.New()
			_, err := s.AddMembership(ctx, lobby.ID, member)
			require.NoError(t, err)

			title := "hijacked"
			_, err = s.UpdateLobby(ctx, lobby.ID, models.LobbyPatch{Title: &title}, member)
			assert.ErrorIs(t, err, apperr.ErrNotHost)
		})

		t.Run("capacity below current members", func(t *testing.T) {
			one := 1
			_, err := s.UpdateLobby(ctx, lobby.ID, models.LobbyPatch{MaxPlayers: &one}, host)
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
		})

		t.Run("going private needs a password", func(t *testing.T) {
			private := true
			_, err := s.UpdateLobby(ctx, lobby.ID, models.LobbyPatch{IsPrivate: &private}, host)
			assert.ErrorIs(t, err, apperr.ErrPasswordRequired)

			hash := "hash"
			updated, err := s.UpdateLobby(ctx, lobby.ID, models.LobbyPatch{IsPrivate: &private, PasswordHash: &hash}, host)
			require.NoError(t, err)
			assert.True(t, updated.IsPrivate)
		})

		t.Run("missing lobby", func(t *testing.T) {
			title := "x"
			_, err := s.UpdateLobby(ctx, uuid.New(), models.LobbyPatch{Title: &title}, host)
			assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)
		})
	})
}

func TestDeactivateLobby(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		lobby, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)
		_, err = s.AddMembership(ctx, lobby.ID, uuid.New())
		require.NoError(t, err)

		_, _, err = s.DeactivateLobby(ctx, lobby.ID, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotHost)

		deactivated, changed, err := s.DeactivateLobby(ctx, lobby.ID, host)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.False(t, deactivated.IsActive)

		count, err := s.CountMembers(ctx, lobby.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		// A duplicate delete is a no-op.
		_, changed, err = s.DeactivateLobby(ctx, lobby.ID, host)
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = s.AddMembership(ctx, lobby.ID, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)

		_, _, err = s.DeactivateLobby(ctx, uuid.New(), host)
		assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)
	})
}

func TestMemberships(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		lobby, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)
		user := uuid.New()

		m, err := s.AddMembership(ctx, lobby.ID, user)
		require.NoError(t, err)
		assert.Equal(t, user, m.UserID)

		_, err = s.AddMembership(ctx, lobby.ID, user)
		assert.ErrorIs(t, err, apperr.ErrAlreadyMember)

		_, err = s.AddMembership(ctx, uuid.New(), user)
		assert.ErrorIs(t, err, apperr.ErrLobbyNotFound)

		members, err := s.ListMembers(ctx, lobby.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, host, members[0].UserID)
		assert.Equal(t, user, members[1].UserID)

		removed, err := s.RemoveMembership(ctx, lobby.ID, user)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.RemoveMembership(ctx, lobby.ID, user)
		require.NoError(t, err)
		assert.False(t, removed)

		count, err := s.CountMembers(ctx, lobby.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestTransferHost(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		lobby, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)

		_, err = s.TransferHost(ctx, lobby.ID, uuid.New())
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))

		next := uuid.New()
		_, err = s.AddMembership(ctx, lobby.ID, next)
		require.NoError(t, err)

		updated, err := s.TransferHost(ctx, lobby.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.HostID)

		got, err := s.GetLobby(ctx, lobby.ID)
		require.NoError(t, err)
		assert.Equal(t, next, got.HostID)

		// The old host leaves in the same transaction.
		members, err := s.ListMembers(ctx, lobby.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, next, members[0].UserID)

		_, err = s.TransferHost(ctx, lobby.ID, next)
		require.NoError(t, err)
		n, err := s.CountMembers(ctx, lobby.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "handing the lobby to its current host keeps the membership")
	})
}

func TestListLobbies(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()

		first, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)
		pubg := newLobby(host)
		pubg.Game = models.GamePUBGMobile
		pubg.Mode = "Classic"
		second, err := s.CreateLobby(ctx, pubg)
		require.NoError(t, err)
		third, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)

		lobbies, err := s.ListLobbies(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, lobbies, 3)
		assert.Equal(t, third.ID, lobbies[0].ID)
		assert.Equal(t, second.ID, lobbies[1].ID)
		assert.Equal(t, first.ID, lobbies[2].ID)

		lobbies, err = s.ListLobbies(ctx, ListFilter{Game: models.GamePUBGMobile})
		require.NoError(t, err)
		require.Len(t, lobbies, 1)
		assert.Equal(t, second.ID, lobbies[0].ID)

		_, _, err = s.DeactivateLobby(ctx, first.ID, host)
		require.NoError(t, err)

		lobbies, err = s.ListLobbies(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, lobbies, 2)

		lobbies, err = s.ListLobbies(ctx, ListFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, lobbies, 3)
	})
}

func TestSnapshot(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host, err := s.CreateUser(ctx, models.User{Nickname: "Ghost", Email: "ghost@example.com", PasswordHash: "x"})
		require.NoError(t, err)

		lobby, err := s.CreateLobby(ctx, newLobby(host.ID))
		require.NoError(t, err)
		_, err = s.AddMembership(ctx, lobby.ID, uuid.New())
		require.NoError(t, err)

		empty := newLobby(uuid.New())
		_, err = s.CreateLobby(ctx, empty)
		require.NoError(t, err)

		summaries, err := s.Snapshot(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		byID := map[uuid.UUID]models.LobbySummary{}
		for _, sum := range summaries {
			byID[sum.Lobby.ID] = sum
		}
		assert.Equal(t, 2, byID[lobby.ID].MemberCount)
		assert.Equal(t, "Ghost", byID[lobby.ID].HostNickname)
	})
}

func TestPurgeInactive(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		host := uuid.New()
		stale, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)
		live, err := s.CreateLobby(ctx, newLobby(host))
		require.NoError(t, err)

		_, _, err = s.DeactivateLobby(ctx, stale.ID, host)
		require.NoError(t, err)

		purged, err := s.PurgeInactive(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, purged)

		purged, err = s.PurgeInactive(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		all, err := s.ListLobbies(ctx, ListFilter{IncludeInactive: true})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, live.ID, all[0].ID)
	})
}

func TestUsers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		user, err := s.CreateUser(ctx, models.User{Nickname: "Viper", Email: "viper@example.com", PasswordHash: "x"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)

		_, err = s.CreateUser(ctx, models.User{Nickname: "viper", Email: "other@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, apperr.ErrNicknameTaken)

		got, err := s.FindUserByLogin(ctx, "VIPER@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		got, err = s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Viper", got.Nickname)

		_, err = s.FindUserByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, apperr.ErrUserNotFound)
	})
}
