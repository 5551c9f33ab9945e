package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"squadup/backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lobbyFor(game models.Game) models.Lobby {
	return models.Lobby{ID: uuid.New(), Game: game, Title: "squad", MaxPlayers: 4}
}

func joined(l models.Lobby, count int) MemberJoined {
	return MemberJoined{Header: NewHeader(l), UserID: uuid.New(), MemberCount: count}
}

func next(t *testing.T, sub *Subscription) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	e, err := sub.Next(ctx)
	require.NoError(t, err)
	return e
}

func TestFilter(t *testing.T) {
	cod := lobbyFor(models.GameCODMobile)
	ff := lobbyFor(models.GameFreeFire)

	tests := []struct {
		name   string
		filter Filter
		event  Event
		want   bool
	}{
		{"zero filter matches all", Filter{}, joined(cod, 1), true},
		{"game match", Filter{Game: models.GameCODMobile}, joined(cod, 1), true},
		{"game mismatch", Filter{Game: models.GameCODMobile}, joined(ff, 1), false},
		{"lobby match", Filter{LobbyID: cod.ID}, LobbyDeleted{Header: NewHeader(cod)}, true},
		{"lobby mismatch", Filter{LobbyID: cod.ID}, LobbyDeleted{Header: NewHeader(ff)}, false},
		{
			"moved away from filtered game",
			Filter{Game: models.GameFreeFire},
			LobbyUpdated{Header: NewHeader(cod), Lobby: cod, PreviousGame: models.GameFreeFire},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.event))
		})
	}
}

func TestHubPublish(t *testing.T) {
	t.Run("fan out to matching subscribers", func(t *testing.T) {
		h := NewHub(8, zerolog.Nop())
		all := h.Subscribe(Filter{})
		codOnly := h.Subscribe(Filter{Game: models.GameCODMobile})
		ffOnly := h.Subscribe(Filter{Game: models.GameFreeFire})

		e := joined(lobbyFor(models.GameCODMobile), 2)
		h.Publish(e)

		assert.Equal(t, e, next(t, all))
		assert.Equal(t, e, next(t, codOnly))
		select {
		case got := <-ffOnly.C():
			t.Fatalf("unexpected event %v", got)
		default:
		}
	})

	t.Run("per lobby order is kept", func(t *testing.T) {
		h := NewHub(64, zerolog.Nop())
		sub := h.Subscribe(Filter{})
		l := lobbyFor(models.GamePUBGMobile)

		for i := 1; i <= 10; i++ {
			h.Publish(joined(l, i))
		}
		for i := 1; i <= 10; i++ {
			e := next(t, sub).(MemberJoined)
			assert.Equal(t, i, e.MemberCount)
		}
	})

	t.Run("subscribers only see events after subscribing", func(t *testing.T) {
		h := NewHub(8, zerolog.Nop())
		l := lobbyFor(models.GameFreeFire)
		h.Publish(joined(l, 1))

		sub := h.Subscribe(Filter{})
		h.Publish(joined(l, 2))

		assert.Equal(t, 2, next(t, sub).(MemberJoined).MemberCount)
	})

	t.Run("lagging subscriber is dropped without gaps", func(t *testing.T) {
		h := NewHub(2, zerolog.Nop())
		slow := h.Subscribe(Filter{})
		l := lobbyFor(models.GameCODMobile)

		for i := 1; i <= 5; i++ {
			h.Publish(joined(l, i))
		}

		var counts []int
		for e := range slow.C() {
			counts = append(counts, e.(MemberJoined).MemberCount)
		}
		assert.Equal(t, []int{1, 2}, counts)
		assert.ErrorIs(t, slow.Err(), ErrSubscriberLagged)
		assert.Zero(t, h.Len())

		_, err := slow.Next(context.Background())
		assert.ErrorIs(t, err, ErrSubscriberLagged)
	})
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	sub := h.Subscribe(Filter{})
	require.Equal(t, 1, h.Len())

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	assert.Zero(t, h.Len())
	assert.NoError(t, sub.Err())

	_, open := <-sub.C()
	assert.False(t, open)

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	// Publishing after unsubscribe must not panic on the closed channel.
	h.Publish(joined(lobbyFor(models.GameCODMobile), 1))
}

func TestClose(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	sub := h.Subscribe(Filter{})
	h.Close()

	_, open := <-sub.C()
	assert.False(t, open)

	late := h.Subscribe(Filter{})
	_, open = <-late.C()
	assert.False(t, open)
	assert.Zero(t, h.Len())
}

func TestEncode(t *testing.T) {
	l := lobbyFor(models.GameCODMobile)
	l.PasswordHash = "secret-hash"
	data, err := Encode(LobbyCreated{Header: NewHeader(l), Lobby: l, MemberCount: 1})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "lobby_created", decoded["type"])

	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, l.ID.String(), payload["lobby_id"])
	assert.Equal(t, "cod-mobile", payload["game"])
	assert.NotContains(t, string(data), "secret-hash")
}
