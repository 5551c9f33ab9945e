// Package lobby is the single entry point for lobby operations. Every mutation of a lobby runs
// inside that lobby's exclusion section: the store is changed, then the resulting events are
// published, then the section is released.
package lobby

import (
	"context"
	"strings"
	"time"

	"squadup/backend/internal/guard"
	"squadup/backend/internal/hub"
	"squadup/backend/internal/metrics"
	"squadup/backend/internal/models"
	"squadup/backend/internal/query"
	"squadup/backend/internal/store"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultLockTimeout = 2 * time.Second
	DefaultLanguage    = "English"
	MaxTitleLength     = 100
)

//go:generate mockgen -destination=mocks/identity_mock.go -package=mocks squadup/backend/internal/lobby Identity

// Identity resolves the caller of the current request.
type Identity interface {
	// CurrentUser returns ErrUnauthenticated when the request carries no identity.
	CurrentUser(ctx context.Context) (uuid.UUID, error)
}

// Catalog validates game-specific lobby input.
type Catalog interface {
	Validate(game models.Game, mode string, maxPlayers int) error
	CanonicalMode(game models.Game, mode string) string
}

// Publisher receives every committed event after the local subscribers.
type Publisher interface {
	Publish(e hub.Event)
}

type Options struct {
	// LockTimeout bounds the wait for a lobby's exclusion section.
	LockTimeout time.Duration
	BcryptCost  int
}

// Service sequences the guard, the store and the hub for each lobby operation.
// It keeps no lobby state of its own.
type Service struct {
	store    store.Store
	guard    *guard.Guard
	hub      *hub.Hub
	query    *query.Engine
	identity Identity
	catalog  Catalog
	mirrors  []Publisher
	opts     Options
	log      zerolog.Logger
}

func NewService(st store.Store, g *guard.Guard, h *hub.Hub, identity Identity, catalog Catalog, opts Options, log zerolog.Logger) *Service {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultLockTimeout
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:    st,
		guard:    g,
		hub:      h,
		query:    query.NewEngine(st),
		identity: identity,
		catalog:  catalog,
		opts:     opts,
		log:      log.With().Str("component", "lobby").Logger(),
	}
}

// Mirror registers an extra publisher, such as the Redis relay. It must not block.
func (s *Service) Mirror(p Publisher) {
	s.mirrors = append(s.mirrors, p)
}

// region --- Inputs ---

// CreateInput carries every host-supplied field of a new lobby.
type CreateInput struct {
	Title            string
	Description      string
	Game             models.Game
	Mode             string
	MaxPlayers       int
	SkillLevel       models.SkillLevel
	Language         string
	Region           string
	GenderPreference models.GenderPreference
	VoiceChat        bool
	IsPrivate        bool
	Password         string
}

// UpdateInput carries the fields a host wants to change. Nil fields are left untouched.
// Password is only consulted when the lobby is private after the update.
type UpdateInput struct {
	Title            *string
	Description      *string
	Game             *models.Game
	Mode             *string
	MaxPlayers       *int
	SkillLevel       *models.SkillLevel
	Language         *string
	Region           *string
	GenderPreference *models.GenderPreference
	VoiceChat        *bool
	IsPrivate        *bool
	Password         *string
}

// Detail is a lobby with its current member list.
type Detail struct {
	query.LobbyView
	Members  []models.Member `json:"members"`
	IsMember bool            `json:"is_member"`
}

// endregion

// CreateLobby creates a lobby hosted by the caller. The host membership is written in the same
// store transaction, so no observer ever sees the lobby without its host.
func (s *Service) CreateLobby(ctx context.Context, in CreateInput) (Detail, error) {
	host, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return Detail{}, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.SkillLevel == "" {
		in.SkillLevel = models.SkillAny
	}
	if in.GenderPreference == "" {
		in.GenderPreference = models.GenderAny
	}
	if strings.TrimSpace(in.Language) == "" {
		in.Language = DefaultLanguage
	}
	if err := s.validate(in.Title, in.Game, in.Mode, in.MaxPlayers, in.SkillLevel, in.GenderPreference); err != nil {
		return Detail{}, err
	}
	if in.IsPrivate && in.Password == "" {
		return Detail{}, apperr.ErrPasswordRequired
	}
	if !in.IsPrivate && in.Password != "" {
		return Detail{}, apperr.ErrPasswordNotAllowed
	}

	var hash string
	if in.IsPrivate {
		if hash, err = s.hashPassword(in.Password); err != nil {
			return Detail{}, err
		}
	}

	lobby := models.Lobby{
		ID:               uuid.New(),
		HostID:           host,
		Title:            in.Title,
		Description:      strings.TrimSpace(in.Description),
		Game:             in.Game,
		Mode:             s.catalog.CanonicalMode(in.Game, in.Mode),
		MaxPlayers:       in.MaxPlayers,
		SkillLevel:       in.SkillLevel,
		Language:         strings.TrimSpace(in.Language),
		Region:           strings.TrimSpace(in.Region),
		GenderPreference: in.GenderPreference,
		VoiceChat:        in.VoiceChat,
		IsPrivate:        in.IsPrivate,
		PasswordHash:     hash,
	}

	var detail Detail
	err = s.exclusive(ctx, lobby.ID, func(ctx context.Context) error {
		created, err := s.store.CreateLobby(ctx, lobby)
		if err != nil {
			return err
		}
		s.publish(hub.LobbyCreated{Header: hub.NewHeader(created), Lobby: created, MemberCount: 1})
		s.publish(hub.MemberJoined{Header: hub.NewHeader(created), UserID: host, MemberCount: 1})

		// The lobby is committed and announced from here on, so a failed read-back must not
		// turn into an error for the caller.
		if detail, err = s.detail(ctx, created, host); err != nil {
			s.log.Warn().Err(err).Str("lobby_id", created.ID.String()).Msg("read back of new lobby failed")
			detail = hostOnlyDetail(created, host)
		}
		return nil
	})
	if err != nil {
		return Detail{}, err
	}

	metrics.LobbiesCreated.WithLabelValues(string(lobby.Game)).Inc()
	s.log.Info().
		Str("lobby_id", lobby.ID.String()).
		Str("host_id", host.String()).
		Str("game", string(lobby.Game)).
		Int("max_players", lobby.MaxPlayers).
		Msg("lobby created")
	return detail, nil
}

// UpdateLobby applies a host edit. Lowering max_players below the current member count is
// rejected; switching a lobby to private requires a password unless it already has one, and
// switching it to public clears the password.
func (s *Service) UpdateLobby(ctx context.Context, id uuid.UUID, in UpdateInput) (Detail, error) {
	actor, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return Detail{}, err
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	var newHash string
	if in.Password != nil && *in.Password != "" {
		if newHash, err = s.hashPassword(*in.Password); err != nil {
			return Detail{}, err
		}
	}

	var detail Detail
	err = s.exclusive(ctx, id, func(ctx context.Context) error {
		current, err := s.store.GetLobby(ctx, id)
		if err != nil {
			return err
		}
		if current.HostID != actor {
			return apperr.ErrNotHost
		}

		patch := in.patch()
		merged := patch.Apply(current)
		if err := s.validate(merged.Title, merged.Game, merged.Mode, merged.MaxPlayers, merged.SkillLevel, merged.GenderPreference); err != nil {
			return err
		}
		mode := s.catalog.CanonicalMode(merged.Game, merged.Mode)
		patch.Mode = &mode

		switch {
		case merged.IsPrivate && newHash != "":
			patch.PasswordHash = &newHash
		case merged.IsPrivate && current.PasswordHash == "":
			return apperr.ErrPasswordRequired
		case !merged.IsPrivate && newHash != "":
			return apperr.ErrPasswordNotAllowed
		case !merged.IsPrivate:
			cleared := ""
			patch.PasswordHash = &cleared
		}

		updated, err := s.store.UpdateLobby(ctx, id, patch, actor)
		if err != nil {
			return err
		}
		count, err := s.store.CountMembers(ctx, id)
		if err != nil {
			return err
		}
		ev := hub.LobbyUpdated{Header: hub.NewHeader(updated), Lobby: updated, MemberCount: count}
		if current.Game != updated.Game {
			ev.PreviousGame = current.Game
		}
		s.publish(ev)

		detail, err = s.detail(ctx, updated, actor)
		return err
	})
	if err != nil {
		return Detail{}, err
	}

	s.log.Info().Str("lobby_id", id.String()).Msg("lobby updated")
	return detail, nil
}

// DeleteLobby soft-deletes the caller's lobby and removes every membership with it.
// Deleting a lobby that is already inactive succeeds without publishing anything.
func (s *Service) DeleteLobby(ctx context.Context, id uuid.UUID) error {
	actor, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var changed bool
	err = s.exclusive(ctx, id, func(ctx context.Context) error {
		lobby, ok, err := s.store.DeactivateLobby(ctx, id, actor)
		if err != nil {
			return err
		}
		changed = ok
		if changed {
			s.publish(hub.LobbyDeleted{Header: hub.NewHeader(lobby)})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		metrics.LobbiesDeleted.Inc()
		s.log.Info().Str("lobby_id", id.String()).Msg("lobby deleted")
	}
	return nil
}

// exclusive runs op inside the lobby's exclusion section, waiting at most LockTimeout to enter.
func (s *Service) exclusive(ctx context.Context, id uuid.UUID, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()

	err := s.guard.WithLobbyExclusion(ctx, id, op)
	if apperr.HasCode(err, apperr.CodeDeadlineExceeded) {
		s.log.Warn().Str("lobby_id", id.String()).Dur("timeout", s.opts.LockTimeout).Msg("lobby exclusion timed out")
	}
	return err
}

// publish must only be called from inside an exclusion section, after the store committed.
func (s *Service) publish(e hub.Event) {
	s.hub.Publish(e)
	for _, m := range s.mirrors {
		m.Publish(e)
	}
}

func (s *Service) validate(title string, game models.Game, mode string, maxPlayers int, skill models.SkillLevel, gender models.GenderPreference) error {
	if title == "" {
		return apperr.InvalidArg("title is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return apperr.InvalidArg("title must be at most 100 characters")
	}
	if !game.Valid() {
		return apperr.InvalidArg("unsupported game")
	}
	if maxPlayers <= 0 || maxPlayers > store.MaxPlayersCeiling {
		return apperr.InvalidArg("max_players must be between 1 and 100")
	}
	if err := s.catalog.Validate(game, mode, maxPlayers); err != nil {
		return err
	}
	if !skill.Valid() {
		return apperr.InvalidArg("unsupported skill_level")
	}
	if !gender.Valid() {
		return apperr.InvalidArg("unsupported gender_preference")
	}
	return nil
}

// hostOnlyDetail describes a lobby that was just created with its host as the only member.
func hostOnlyDetail(lobby models.Lobby, host uuid.UUID) Detail {
	return Detail{
		LobbyView: query.LobbyView{
			Lobby:       lobby,
			MemberCount: 1,
			IsFull:      lobby.MaxPlayers <= 1,
		},
		Members:  []models.Member{{UserID: host, JoinedAt: lobby.CreatedAt}},
		IsMember: true,
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (in UpdateInput) patch() models.LobbyPatch {
	return models.LobbyPatch{
		Title:            in.Title,
		Description:      in.Description,
		Game:             in.Game,
		Mode:             in.Mode,
		MaxPlayers:       in.MaxPlayers,
		SkillLevel:       in.SkillLevel,
		Language:         in.Language,
		Region:           in.Region,
		GenderPreference: in.GenderPreference,
		VoiceChat:        in.VoiceChat,
		IsPrivate:        in.IsPrivate,
	}
}
