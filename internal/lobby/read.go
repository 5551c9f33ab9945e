package lobby

import (
	"context"

	"squadup/backend/internal/hub"
	"squadup/backend/internal/models"
	"squadup/backend/internal/query"

	"github.com/google/uuid"
)

// GetLobby returns an active lobby with its members, oldest first. It does not require an
// identity; when one is present IsMember tells whether the caller belongs to the lobby.
func (s *Service) GetLobby(ctx context.Context, id uuid.UUID) (Detail, error) {
	lobby, err := s.store.GetLobby(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	viewer, _ := s.identity.CurrentUser(ctx)
	return s.detail(ctx, lobby, viewer)
}

// ListLobbies answers from a store snapshot without touching any exclusion section.
func (s *Service) ListLobbies(ctx context.Context, q query.Query) (query.Result, error) {
	return s.query.ListLobbies(ctx, q)
}

func (s *Service) Stats(ctx context.Context) (query.Stats, error) {
	return s.query.Stats(ctx)
}

// Subscribe starts a live event stream. Events published before the call are not replayed;
// callers reconcile by listing lobbies after subscribing.
func (s *Service) Subscribe(filter hub.Filter) *hub.Subscription {
	return s.hub.Subscribe(filter)
}

func (s *Service) Unsubscribe(sub *hub.Subscription) {
	s.hub.Unsubscribe(sub)
}

func (s *Service) detail(ctx context.Context, lobby models.Lobby, viewer uuid.UUID) (Detail, error) {
	members, err := s.store.ListMembers(ctx, lobby.ID)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		LobbyView: query.LobbyView{
			Lobby:       lobby,
			MemberCount: len(members),
			IsFull:      len(members) >= lobby.MaxPlayers,
		},
		Members: members,
	}
	for _, m := range members {
		if m.UserID == lobby.HostID {
			d.HostNickname = m.Nickname
		}
		if viewer != uuid.Nil && m.UserID == viewer {
			d.IsMember = true
		}
	}
	return d, nil
}
