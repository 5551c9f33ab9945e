package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLStore is a Store backed by gorm. It works against postgres and sqlite.
type SQLStore struct {
	db    *gorm.DB
	clock clock
}

// NewSQLStore wraps an already migrated gorm connection.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) CreateLobby(ctx context.Context, lobby models.Lobby) (models.Lobby, error) {
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

	// Use a transaction so the lobby never exists without its host
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lobby).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.AlreadyExists("lobby id already in use")
			}
			return apperr.ErrStorage(err)
		}
		host := models.Membership{LobbyID: lobby.ID, UserID: lobby.HostID, JoinedAt: now}
		if err := tx.Create(&host).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		return nil
	})
	if err != nil {
		return models.Lobby{}, err
	}
	return lobby, nil
}

func (s *SQLStore) GetLobby(ctx context.Context, id uuid.UUID) (models.Lobby, error) {
	return activeLobbyTx(s.db.WithContext(ctx), id)
}

func (s *SQLStore) UpdateLobby(ctx context.Context, id uuid.UUID, patch models.LobbyPatch, actor uuid.UUID) (models.Lobby, error) {
	var updated models.Lobby
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lobby, err := activeLobbyTx(tx, id)
		if err != nil {
			return err
		}
		if lobby.HostID != actor {
			return apperr.ErrNotHost
		}

		updated = patch.Apply(lobby)
		if err := ValidateLobby(updated); err != nil {
			return err
		}
		count, err := countMembersTx(tx, id)
		if err != nil {
			return err
		}
		if updated.MaxPlayers < count {
			return apperr.ErrCapacityBelowMembers(count)
		}
		updated.UpdatedAt = s.clock.now()

		if err := tx.Save(&updated).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		return nil
	})
	if err != nil {
		return models.Lobby{}, err
	}
	return updated, nil
}

func (s *SQLStore) DeactivateLobby(ctx context.Context, id uuid.UUID, actor uuid.UUID) (models.Lobby, bool, error) {
	var (
		lobby   models.Lobby
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lobby, err = anyLobbyTx(tx, id)
		if err != nil {
			return err
		}
		if lobby.HostID != actor {
			return apperr.ErrNotHost
		}
		if !lobby.IsActive {
			return nil
		}

		now := s.clock.now()
		err = tx.Model(&models.Lobby{}).Where("id = ?", id).Updates(map[string]interface{}{
			"is_active":      false,
			"deactivated_at": now,
			"updated_at":     now,
		}).Error
		if err != nil {
			return apperr.ErrStorage(err)
		}
		if err := tx.Where("lobby_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return apperr.ErrStorage(err)
		}

		lobby.IsActive = false
		lobby.UpdatedAt = now
		lobby.DeactivatedAt = &now
		changed = true
		return nil
	})
	if err != nil {
		return models.Lobby{}, false, err
	}
	return lobby, changed, nil
}

func (s *SQLStore) TransferHost(ctx context.Context, id uuid.UUID, newHost uuid.UUID) (models.Lobby, error) {
	var lobby models.Lobby
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lobby, err = activeLobbyTx(tx, id)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Membership{}).Where("lobby_id = ? AND user_id = ?", id, newHost).Count(&n).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		if n == 0 {
			return apperr.InvalidArg("new host must be a member of the lobby")
		}

		previous := lobby.HostID
		lobby.HostID = newHost
		lobby.UpdatedAt = s.clock.now()
		err = tx.Model(&models.Lobby{}).Where("id = ?", id).Updates(map[string]interface{}{
			"host_id":    newHost,
			"updated_at": lobby.UpdatedAt,
		}).Error
		if err != nil {
			return apperr.ErrStorage(err)
		}
		if previous == newHost {
			return nil
		}
		if err := tx.Where("lobby_id = ? AND user_id = ?", id, previous).Delete(&models.Membership{}).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		return nil
	})
	if err != nil {
		return models.Lobby{}, err
	}
	return lobby, nil
}

func (s *SQLStore) PurgeInactive(ctx context.Context, deactivatedBefore time.Time) (int, error) {
	var purged int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&models.Lobby{}).
			Where("is_active = ? AND deactivated_at < ?", false, deactivatedBefore.UTC()).
			Pluck("id", &ids).Error
		if err != nil {
			return apperr.ErrStorage(err)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("lobby_id IN ?", ids).Delete(&models.Membership{}).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Lobby{})
		if res.Error != nil {
			return apperr.ErrStorage(res.Error)
		}
		purged = res.RowsAffected
		return nil
	})
	return int(purged), err
}

func (s *SQLStore) AddMembership(ctx context.Context, lobbyID, userID uuid.UUID) (models.Membership, error) {
	m := models.Membership{LobbyID: lobbyID, UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := activeLobbyTx(tx, lobbyID); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Membership{}).Where("lobby_id = ? AND user_id = ?", lobbyID, userID).Count(&n).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		if n > 0 {
			return apperr.ErrAlreadyMember
		}

		m.JoinedAt = s.clock.now()
		if err := tx.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.ErrAlreadyMember
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperr.ErrLobbyNotFound
			}
			return apperr.ErrStorage(err)
		}
		return nil
	})
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

func (s *SQLStore) RemoveMembership(ctx context.Context, lobbyID, userID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return false, apperr.ErrStorage(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SQLStore) CountMembers(ctx context.Context, lobbyID uuid.UUID) (int, error) {
	return countMembersTx(s.db.WithContext(ctx), lobbyID)
}

func (s *SQLStore) ListMembers(ctx context.Context, lobbyID uuid.UUID) ([]models.Member, error) {
	members := []models.Member{}
	err := s.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.user_id, COALESCE(users.nickname, '') AS nickname, memberships.joined_at").
		Joins("LEFT JOIN users ON users.id = memberships.user_id").
		Where("memberships.lobby_id = ?", lobbyID).
		Order("memberships.joined_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	return members, nil
}

func (s *SQLStore) ListLobbies(ctx context.Context, filter ListFilter) ([]models.Lobby, error) {
	return listLobbiesTx(s.db.WithContext(ctx), filter)
}

func (s *SQLStore) Snapshot(ctx context.Context, filter ListFilter) ([]models.LobbySummary, error) {
	var summaries []models.LobbySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lobbies, err := listLobbiesTx(tx, filter)
		if err != nil {
			return err
		}
		if len(lobbies) == 0 {
			summaries = []models.LobbySummary{}
			return nil
		}

		ids := make([]string, 0, len(lobbies))
		hostIDs := make([]string, 0, len(lobbies))
		for _, l := range lobbies {
			ids = append(ids, l.ID.String())
			hostIDs = append(hostIDs, l.HostID.String())
		}

		var counts []struct {
			LobbyID uuid.UUID
			Members int
		}
		err = tx.Model(&models.Membership{}).
			Select("lobby_id, COUNT(*) AS members").
			Where("lobby_id IN ?", ids).
			Group("lobby_id").
			Scan(&counts).Error
		if err != nil {
			return apperr.ErrStorage(err)
		}
		countByLobby := make(map[uuid.UUID]int, len(counts))
		for _, c := range counts {
			countByLobby[c.LobbyID] = c.Members
		}

		var hosts []models.User
		if err := tx.Where("id IN ?", hostIDs).Find(&hosts).Error; err != nil {
			return apperr.ErrStorage(err)
		}
		nicknames := make(map[uuid.UUID]string, len(hosts))
		for _, h := range hosts {
			nicknames[h.ID] = h.Nickname
		}

		summaries = make([]models.LobbySummary, 0, len(lobbies))
		for _, l := range lobbies {
			summaries = append(summaries, models.LobbySummary{
				Lobby:        l,
				MemberCount:  countByLobby[l.ID],
				HostNickname: nicknames[l.HostID],
			})
		}
		return nil
	}, s.snapshotTxOptions())
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// snapshotTxOptions asks postgres for a repeatable-read view so every statement in
// Snapshot sees the same data. sqlite transactions are already serializable.
func (s *SQLStore) snapshotTxOptions() *sql.TxOptions {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

func (s *SQLStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&models.User{}).
			Where("LOWER(nickname) = LOWER(?) OR LOWER(email) = LOWER(?)", user.Nickname, user.Email).
			Count(&n).Error
		if err != nil {
			return apperr.ErrStorage(err)
		}
		if n > 0 {
			return apperr.ErrNicknameTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.ErrNicknameTaken
			}
			return apperr.ErrStorage(err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.ErrUserNotFound
		}
		return models.User{}, apperr.ErrStorage(err)
	}
	return user, nil
}

func (s *SQLStore) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(nickname) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.ErrUserNotFound
		}
		return models.User{}, apperr.ErrStorage(err)
	}
	return user, nil
}

func anyLobbyTx(tx *gorm.DB, id uuid.UUID) (models.Lobby, error) {
	var lobby models.Lobby
	if err := tx.Where("id = ?", id).First(&lobby).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lobby{}, apperr.ErrLobbyNotFound
		}
		return models.Lobby{}, apperr.ErrStorage(err)
	}
	return lobby, nil
}

func activeLobbyTx(tx *gorm.DB, id uuid.UUID) (models.Lobby, error) {
	lobby, err := anyLobbyTx(tx, id)
	if err != nil {
		return models.Lobby{}, err
	}
	if !lobby.IsActive {
		return models.Lobby{}, apperr.ErrLobbyNotFound
	}
	return lobby, nil
}

func countMembersTx(tx *gorm.DB, lobbyID uuid.UUID) (int, error) {
	var n int64
	if err := tx.Model(&models.Membership{}).Where("lobby_id = ?", lobbyID).Count(&n).Error; err != nil {
		return 0, apperr.ErrStorage(err)
	}
	return int(n), nil
}

func listLobbiesTx(tx *gorm.DB, filter ListFilter) ([]models.Lobby, error) {
	query := tx.Model(&models.Lobby{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Game != "" {
		query = query.Where("game = ?", filter.Game)
	}

	lobbies := []models.Lobby{}
	if err := query.Order("created_at DESC").Find(&lobbies).Error; err != nil {
		return nil, apperr.ErrStorage(err)
	}
	return lobbies, nil
}
