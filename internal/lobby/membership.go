package lobby

import (
	"context"

	"squadup/backend/internal/hub"
	"squadup/backend/internal/metrics"
	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// passwordCheck caches one bcrypt comparison against a specific stored hash.
type passwordCheck struct {
	hash string
	ok   bool
}

func checkPassword(hash, password string) passwordCheck {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return passwordCheck{hash: hash, ok: err == nil}
}

// JoinLobby adds the caller to a lobby.
//
// Inside the exclusion section the checks run in a fixed order: the lobby must be active
// (NotFound), a private lobby's password must match (Forbidden), the lobby must have a free
// slot (LobbyFull), and the caller must not already be a member (AlreadyMember). Because the
// count is read under the same exclusion as the insert, racing joins for the last slot cannot
// both succeed.
func (s *Service) JoinLobby(ctx context.Context, id uuid.UUID, password string) (detail Detail, err error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return Detail{}, err
	}
	defer func() { metrics.JoinAttempts.WithLabelValues(joinResult(err)).Inc() }()

	// The bcrypt comparison is slow, so it runs before entering the section. If the hash
	// changed in the meantime it is compared again inside.
	var check passwordCheck
	if pre, err := s.store.GetLobby(ctx, id); err == nil && pre.IsPrivate {
		check = checkPassword(pre.PasswordHash, password)
	}

	err = s.exclusive(ctx, id, func(ctx context.Context) error {
		lobby, err := s.store.GetLobby(ctx, id)
		if err != nil {
			return err
		}
		if lobby.IsPrivate {
			if check.hash != lobby.PasswordHash {
				check = checkPassword(lobby.PasswordHash, password)
			}
			if !check.ok {
				return apperr.ErrWrongPassword
			}
		}

		count, err := s.store.CountMembers(ctx, id)
		if err != nil {
			return err
		}
		if count >= lobby.MaxPlayers {
			return apperr.ErrLobbyFull
		}
		if _, err := s.store.AddMembership(ctx, id, user); err != nil {
			return err
		}
		s.publish(hub.MemberJoined{Header: hub.NewHeader(lobby), UserID: user, MemberCount: count + 1})

		detail, err = s.detail(ctx, lobby, user)
		return err
	})
	if err != nil {
		s.log.Debug().Err(err).Str("lobby_id", id.String()).Str("user_id", user.String()).Msg("join rejected")
		return Detail{}, err
	}

	s.log.Debug().Str("lobby_id", id.String()).Str("user_id", user.String()).Int("members", detail.MemberCount).Msg("member joined")
	return detail, nil
}

// LeaveLobby removes the caller from a lobby. Leaving a lobby the caller is not in, or one
// that no longer exists, is a no-op.
//
// When the host leaves, the host role passes to the earliest-joined remaining member. A host
// who was the only member deactivates the lobby instead.
func (s *Service) LeaveLobby(ctx context.Context, id uuid.UUID) error {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}

	return s.exclusive(ctx, id, func(ctx context.Context) error {
		lobby, err := s.store.GetLobby(ctx, id)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if lobby.HostID == user {
			return s.hostLeave(ctx, lobby)
		}

		removed, err := s.store.RemoveMembership(ctx, id, user)
		if err != nil || !removed {
			return err
		}
		count, err := s.store.CountMembers(ctx, id)
		if err != nil {
			return err
		}
		s.publish(hub.MemberLeft{Header: hub.NewHeader(lobby), UserID: user, MemberCount: count, Reason: hub.ReasonLeft})
		s.log.Debug().Str("lobby_id", id.String()).Str("user_id", user.String()).Int("members", count).Msg("member left")
		return nil
	})
}

// hostLeave hands the lobby to the earliest remaining member. The store moves the host role
// and drops the old host's membership together, so the lobby always has a host who is also
// a member.
func (s *Service) hostLeave(ctx context.Context, lobby models.Lobby) error {
	members, err := s.store.ListMembers(ctx, lobby.ID)
	if err != nil {
		return err
	}

	var successor *models.Member
	for i := range members {
		if members[i].UserID != lobby.HostID {
			successor = &members[i]
			break
		}
	}

	if successor == nil {
		deleted, changed, err := s.store.DeactivateLobby(ctx, lobby.ID, lobby.HostID)
		if err != nil || !changed {
			return err
		}
		s.publish(hub.MemberLeft{Header: hub.NewHeader(deleted), UserID: lobby.HostID, MemberCount: 0, Reason: hub.ReasonLeft})
		s.publish(hub.LobbyDeleted{Header: hub.NewHeader(deleted)})
		metrics.LobbiesDeleted.Inc()
		s.log.Info().Str("lobby_id", lobby.ID.String()).Msg("last member left, lobby deleted")
		return nil
	}

	updated, err := s.store.TransferHost(ctx, lobby.ID, successor.UserID)
	if err != nil {
		return err
	}
	count, err := s.store.CountMembers(ctx, lobby.ID)
	if err != nil {
		return err
	}
	s.publish(hub.MemberLeft{Header: hub.NewHeader(updated), UserID: lobby.HostID, MemberCount: count, Reason: hub.ReasonLeft})
	s.publish(hub.LobbyUpdated{Header: hub.NewHeader(updated), Lobby: updated, MemberCount: count})
	s.log.Info().
		Str("lobby_id", lobby.ID.String()).
		Str("new_host_id", successor.UserID.String()).
		Msg("host left, host role transferred")
	return nil
}

// KickMember lets the host remove another member.
func (s *Service) KickMember(ctx context.Context, id, member uuid.UUID) error {
	actor, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}

	return s.exclusive(ctx, id, func(ctx context.Context) error {
		lobby, err := s.store.GetLobby(ctx, id)
		if err != nil {
			return err
		}
		if lobby.HostID != actor {
			return apperr.ErrNotHost
		}
		if member == actor {
			return apperr.ErrHostCannotKick
		}

		removed, err := s.store.RemoveMembership(ctx, id, member)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.ErrNotMember
		}
		count, err := s.store.CountMembers(ctx, id)
		if err != nil {
			return err
		}
		s.publish(hub.MemberLeft{Header: hub.NewHeader(lobby), UserID: member, MemberCount: count, Reason: hub.ReasonKicked})
		s.log.Info().Str("lobby_id", id.String()).Str("user_id", member.String()).Msg("member kicked")
		return nil
	})
}

func joinResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperr.CodeOf(err) {
	case apperr.CodeLobbyFull:
		return "full"
	case apperr.CodeAlreadyMember:
		return "already_member"
	case apperr.CodeNotFound:
		return "not_found"
	case apperr.CodePermissionDenied:
		return "forbidden"
	case apperr.CodeDeadlineExceeded, apperr.CodeCanceled:
		return "timeout"
	}
	return "error"
}
