package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const (
	tableLobby      = "lobby"
	tableMembership = "membership"
	tableUser       = "user"
)

// Rows are treated as immutable once inserted; updates insert a fresh copy.
type lobbyRow struct {
	Key    string
	Active bool
	Lobby  models.Lobby
}

type memberRow struct {
	LobbyKey   string
	UserKey    string
	Membership models.Membership
}

type userRow struct {
	Key      string
	Nickname string
	Email    string
	User     models.User
}

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableLobby: {
			Name: tableLobby,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.UUIDFieldIndex{Field: "Key"},
				},
				"active": {
					Name:    "active",
					Indexer: &memdb.BoolFieldIndex{Field: "Active"},
				},
			},
		},
		tableMembership: {
			Name: tableMembership,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.UUIDFieldIndex{Field: "LobbyKey"},
							&memdb.UUIDFieldIndex{Field: "UserKey"},
						},
					},
				},
				"lobby": {
					Name:    "lobby",
					Indexer: &memdb.UUIDFieldIndex{Field: "LobbyKey"},
				},
			},
		},
		tableUser: {
			Name: tableUser,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.UUIDFieldIndex{Field: "Key"},
				},
				"nickname": {
					Name:    "nickname",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Nickname", Lowercase: true},
				},
				"email": {
					Name:         "email",
					Unique:       true,
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
				},
			},
		},
	},
}

// MemStore is an in-process Store backed by go-memdb. Read transactions see an
// immutable snapshot, so Snapshot never blocks writers.
type MemStore struct {
	db    *memdb.MemDB
	clock clock
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() (*MemStore, error) {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		return nil, err
	}
	return &MemStore{db: db}, nil
}

func (s *MemStore) Close() error { return nil }

func (s *MemStore) CreateLobby(_ context.Context, lobby models.Lobby) (models.Lobby, error) {
	if lobby.ID == uuid.Nil {
		lobby.ID = uuid.New()
	}
	now := s.clock.now()
	lobby.IsActive = true
	lobby.CreatedAt = now
	lobby.UpdatedAt = now
	lobby.DeactivatedAt = nil
	lobby.Memberships = nil
	if err := ValidateLobby(lobby); err != nil {
		return models.Lobby{}, err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableLobby, "id", lobby.ID.String())
	if err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	if existing != nil {
		return models.Lobby{}, apperr.AlreadyExists("lobby id already in use")
	}

	if err := txn.Insert(tableLobby, newLobbyRow(lobby)); err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	host := models.Membership{LobbyID: lobby.ID, UserID: lobby.HostID, JoinedAt: now}
	if err := txn.Insert(tableMembership, newMemberRow(host)); err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	txn.Commit()
	return lobby, nil
}

func (s *MemStore) GetLobby(_ context.Context, id uuid.UUID) (models.Lobby, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	lobby, err := activeLobby(txn, id)
	if err != nil {
		return models.Lobby{}, err
	}
	return lobby, nil
}

func (s *MemStore) UpdateLobby(_ context.Context, id uuid.UUID, patch models.LobbyPatch, actor uuid.UUID) (models.Lobby, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	lobby, err := activeLobby(txn, id)
	if err != nil {
		return models.Lobby{}, err
	}
	if lobby.HostID != actor {
		return models.Lobby{}, apperr.ErrNotHost
	}

	updated := patch.Apply(lobby)
	if err := ValidateLobby(updated); err != nil {
		return models.Lobby{}, err
	}
	count, err := countMembers(txn, id)
	if err != nil {
		return models.Lobby{}, err
	}
	if updated.MaxPlayers < count {
		return models.Lobby{}, apperr.ErrCapacityBelowMembers(count)
	}
	updated.UpdatedAt = s.clock.now()

	if err := txn.Insert(tableLobby, newLobbyRow(updated)); err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	txn.Commit()
	return updated, nil
}

func (s *MemStore) DeactivateLobby(_ context.Context, id uuid.UUID, actor uuid.UUID) (models.Lobby, bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	lobby, err := anyLobby(txn, id)
	if err != nil {
		return models.Lobby{}, false, err
	}
	if lobby.HostID != actor {
		return models.Lobby{}, false, apperr.ErrNotHost
	}
	if !lobby.IsActive {
		return lobby, false, nil
	}

	now := s.clock.now()
	lobby.IsActive = false
	lobby.UpdatedAt = now
	lobby.DeactivatedAt = &now
	if err := txn.Insert(tableLobby, newLobbyRow(lobby)); err != nil {
		return models.Lobby{}, false, apperr.ErrStorage(err)
	}
	if _, err := txn.DeleteAll(tableMembership, "lobby", id.String()); err != nil {
		return models.Lobby{}, false, apperr.ErrStorage(err)
	}
	txn.Commit()
	return lobby, true, nil
}

func (s *MemStore) TransferHost(_ context.Context, id uuid.UUID, newHost uuid.UUID) (models.Lobby, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	lobby, err := activeLobby(txn, id)
	if err != nil {
		return models.Lobby{}, err
	}
	member, err := txn.First(tableMembership, "id", id.String(), newHost.String())
	if err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	if member == nil {
		return models.Lobby{}, apperr.InvalidArg("new host must be a member of the lobby")
	}

	var previous interface{}
	if lobby.HostID != newHost {
		if previous, err = txn.First(tableMembership, "id", id.String(), lobby.HostID.String()); err != nil {
			return models.Lobby{}, apperr.ErrStorage(err)
		}
	}

	lobby.HostID = newHost
	lobby.UpdatedAt = s.clock.now()
	if err := txn.Insert(tableLobby, newLobbyRow(lobby)); err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	if previous != nil {
		if err := txn.Delete(tableMembership, previous); err != nil {
			return models.Lobby{}, apperr.ErrStorage(err)
		}
	}
	txn.Commit()
	return lobby, nil
}

func (s *MemStore) PurgeInactive(_ context.Context, deactivatedBefore time.Time) (int, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(tableLobby, "active", false)
	if err != nil {
		return 0, apperr.ErrStorage(err)
	}
	var stale []*lobbyRow
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*lobbyRow)
		if at := row.Lobby.DeactivatedAt; at != nil && at.Before(deactivatedBefore) {
			stale = append(stale, row)
		}
	}
	for _, row := range stale {
		if err := txn.Delete(tableLobby, row); err != nil {
			return 0, apperr.ErrStorage(err)
		}
		if _, err := txn.DeleteAll(tableMembership, "lobby", row.Key); err != nil {
			return 0, apperr.ErrStorage(err)
		}
	}
	txn.Commit()
	return len(stale), nil
}

func (s *MemStore) AddMembership(_ context.Context, lobbyID, userID uuid.UUID) (models.Membership, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := activeLobby(txn, lobbyID); err != nil {
		return models.Membership{}, err
	}
	existing, err := txn.First(tableMembership, "id", lobbyID.String(), userID.String())
	if err != nil {
		return models.Membership{}, apperr.ErrStorage(err)
	}
	if existing != nil {
		return models.Membership{}, apperr.ErrAlreadyMember
	}

	m := models.Membership{LobbyID: lobbyID, UserID: userID, JoinedAt: s.clock.now()}
	if err := txn.Insert(tableMembership, newMemberRow(m)); err != nil {
		return models.Membership{}, apperr.ErrStorage(err)
	}
	txn.Commit()
	return m, nil
}

func (s *MemStore) RemoveMembership(_ context.Context, lobbyID, userID uuid.UUID) (bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableMembership, "id", lobbyID.String(), userID.String())
	if err != nil {
		return false, apperr.ErrStorage(err)
	}
	if existing == nil {
		return false, nil
	}
	if err := txn.Delete(tableMembership, existing); err != nil {
		return false, apperr.ErrStorage(err)
	}
	txn.Commit()
	return true, nil
}

func (s *MemStore) CountMembers(_ context.Context, lobbyID uuid.UUID) (int, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return countMembers(txn, lobbyID)
}

func (s *MemStore) ListMembers(_ context.Context, lobbyID uuid.UUID) ([]models.Member, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMembership, "lobby", lobbyID.String())
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	members := []models.Member{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		m := obj.(*memberRow).Membership
		members = append(members, models.Member{
			UserID:   m.UserID,
			Nickname: nickname(txn, m.UserID),
			JoinedAt: m.JoinedAt,
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (s *MemStore) ListLobbies(_ context.Context, filter ListFilter) ([]models.Lobby, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	rows, err := lobbyRows(txn, filter)
	if err != nil {
		return nil, err
	}
	lobbies := make([]models.Lobby, 0, len(rows))
	for _, row := range rows {
		lobbies = append(lobbies, row.Lobby)
	}
	return lobbies, nil
}

func (s *MemStore) Snapshot(_ context.Context, filter ListFilter) ([]models.LobbySummary, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	rows, err := lobbyRows(txn, filter)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.LobbySummary, 0, len(rows))
	for _, row := range rows {
		count, err := countMembers(txn, row.Lobby.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.LobbySummary{
			Lobby:        row.Lobby,
			MemberCount:  count,
			HostNickname: nickname(txn, row.Lobby.HostID),
		})
	}
	return summaries, nil
}

func (s *MemStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := s.clock.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	txn := s.db.Txn(true)
	defer txn.Abort()

	for index, value := range map[string]string{"nickname": user.Nickname, "email": user.Email} {
		existing, err := txn.First(tableUser, index, value)
		if err != nil {
			return models.User{}, apperr.ErrStorage(err)
		}
		if existing != nil {
			return models.User{}, apperr.ErrNicknameTaken
		}
	}
	row := &userRow{Key: user.ID.String(), Nickname: user.Nickname, Email: user.Email, User: user}
	if err := txn.Insert(tableUser, row); err != nil {
		return models.User{}, apperr.ErrStorage(err)
	}
	txn.Commit()
	return user, nil
}

func (s *MemStore) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableUser, "id", id.String())
	if err != nil {
		return models.User{}, apperr.ErrStorage(err)
	}
	if obj == nil {
		return models.User{}, apperr.ErrUserNotFound
	}
	return obj.(*userRow).User, nil
}

func (s *MemStore) FindUserByLogin(_ context.Context, login string) (models.User, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	login = strings.TrimSpace(login)
	for _, index := range []string{"nickname", "email"} {
		obj, err := txn.First(tableUser, index, login)
		if err != nil {
			return models.User{}, apperr.ErrStorage(err)
		}
		if obj != nil {
			return obj.(*userRow).User, nil
		}
	}
	return models.User{}, apperr.ErrUserNotFound
}

func newLobbyRow(l models.Lobby) *lobbyRow {
	return &lobbyRow{Key: l.ID.String(), Active: l.IsActive, Lobby: l}
}

func newMemberRow(m models.Membership) *memberRow {
	return &memberRow{LobbyKey: m.LobbyID.String(), UserKey: m.UserID.String(), Membership: m}
}

func anyLobby(txn *memdb.Txn, id uuid.UUID) (models.Lobby, error) {
	obj, err := txn.First(tableLobby, "id", id.String())
	if err != nil {
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	if obj == nil {
		return models.Lobby{}, apperr.ErrLobbyNotFound
	}
	return obj.(*lobbyRow).Lobby, nil
}

func activeLobby(txn *memdb.Txn, id uuid.UUID) (models.Lobby, error) {
	lobby, err := anyLobby(txn, id)
	if err != nil {
		return models.Lobby{}, err
	}
	if !lobby.IsActive {
		return models.Lobby{}, apperr.ErrLobbyNotFound
	}
	return lobby, nil
}

func countMembers(txn *memdb.Txn, lobbyID uuid.UUID) (int, error) {
	it, err := txn.Get(tableMembership, "lobby", lobbyID.String())
	if err != nil {
		return 0, apperr.ErrStorage(err)
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n, nil
}

func nickname(txn *memdb.Txn, userID uuid.UUID) string {
	obj, err := txn.First(tableUser, "id", userID.String())
	if err != nil || obj == nil {
		return ""
	}
	return obj.(*userRow).Nickname
}

func lobbyRows(txn *memdb.Txn, filter ListFilter) ([]*lobbyRow, error) {
	states := []bool{true}
	if filter.IncludeInactive {
		states = append(states, false)
	}

	var rows []*lobbyRow
	for _, active := range states {
		it, err := txn.Get(tableLobby, "active", active)
		if err != nil {
			return nil, apperr.ErrStorage(err)
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			row := obj.(*lobbyRow)
			if filter.match(row.Lobby) {
				rows = append(rows, row)
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Lobby.CreatedAt.After(rows[j].Lobby.CreatedAt)
	})
	return rows, nil
}
