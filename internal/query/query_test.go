package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"squadup/backend/internal/models"
	"squadup/backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshot struct {
	summaries []models.LobbySummary
	filters   []store.ListFilter
	err       error
}

func (f *fakeSnapshot) Snapshot(_ context.Context, filter store.ListFilter) ([]models.LobbySummary, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.LobbySummary
	for _, s := range f.summaries {
		if filter.Game == "" || s.Lobby.Game == filter.Game {
			out = append(out, s)
		}
	}
	return out, nil
}

func summary(title, host string, game models.Game, members, max int) models.LobbySummary {
	return models.LobbySummary{
		Lobby: models.Lobby{
			ID:         uuid.New(),
			Title:      title,
			Game:       game,
			MaxPlayers: max,
			SkillLevel: models.SkillAny,
			Language:   "English",
			IsActive:   true,
		},
		MemberCount:  members,
		HostNickname: host,
	}
}

func titles(views []LobbyView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}

func TestListLobbies(t *testing.T) {
	ctx := context.Background()

	pro := summary("Ranked grind", "ghost", models.GameCODMobile, 2, 4)
	pro.Lobby.SkillLevel = models.SkillPro
	pro.Lobby.VoiceChat = true
	full := summary("Chill squad", "Reaper", models.GamePUBGMobile, 4, 4)
	full.Lobby.Region = "EU"
	other := summary("Clash night", "nova", models.GameFreeFire, 1, 4)
	other.Lobby.Language = "Hindi"

	src := &fakeSnapshot{summaries: []models.LobbySummary{pro, full, other}}
	engine := NewEngine(src)

	yes := true
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"everything", Query{}, []string{"Ranked grind", "Chill squad", "Clash night"}},
		{"game", Query{Game: models.GamePUBGMobile}, []string{"Chill squad"}},
		{"title substring ignores case", Query{Text: "GRIND"}, []string{"Ranked grind"}},
		{"host nickname", Query{Text: "reap"}, []string{"Chill squad"}},
		{"text with spaces", Query{Text: "  clash "}, []string{"Clash night"}},
		{"no match", Query{Text: "zzz"}, []string{}},
		{"skill", Query{SkillLevel: models.SkillPro}, []string{"Ranked grind"}},
		{"language", Query{Language: "hindi"}, []string{"Clash night"}},
		{"region", Query{Region: "eu"}, []string{"Chill squad"}},
		{"voice", Query{VoiceChat: &yes}, []string{"Ranked grind"}},
		{"open only", Query{OpenOnly: true}, []string{"Ranked grind", "Clash night"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.ListLobbies(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(res.Lobbies))
			assert.Equal(t, len(tt.want), res.Total)
		})
	}

	t.Run("game filter is pushed to the store", func(t *testing.T) {
		src.filters = nil
		_, err := engine.ListLobbies(ctx, Query{Game: models.GameFreeFire})
		require.NoError(t, err)
		require.Len(t, src.filters, 1)
		assert.Equal(t, models.GameFreeFire, src.filters[0].Game)
		assert.False(t, src.filters[0].IncludeInactive)
	})

	t.Run("view carries derived fields", func(t *testing.T) {
		res, err := engine.ListLobbies(ctx, Query{Game: models.GamePUBGMobile})
		require.NoError(t, err)
		require.Len(t, res.Lobbies, 1)
		assert.Equal(t, 4, res.Lobbies[0].MemberCount)
		assert.Equal(t, "Reaper", res.Lobbies[0].HostNickname)
		assert.True(t, res.Lobbies[0].IsFull)
	})
}

func TestListLobbiesPagination(t *testing.T) {
	var summaries []models.LobbySummary
	for i := 0; i < 25; i++ {
		summaries = append(summaries, summary(fmt.Sprintf("lobby %02d", i), "host", models.GameCODMobile, 1, 4))
	}
	engine := NewEngine(&fakeSnapshot{summaries: summaries})
	ctx := context.Background()

	res, err := engine.ListLobbies(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, res.Lobbies, DefaultLimit)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 1, res.Page)

	res, err = engine.ListLobbies(ctx, Query{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"lobby 20", "lobby 21", "lobby 22", "lobby 23", "lobby 24"}, titles(res.Lobbies))

	res, err = engine.ListLobbies(ctx, Query{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Lobbies)
	assert.Equal(t, 25, res.Total)

	res, err = engine.ListLobbies(ctx, Query{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, res.Limit)

	for _, page := range []int{math.MaxInt, math.MaxInt/DefaultLimit + 2} {
		res, err = engine.ListLobbies(ctx, Query{Page: page, Limit: DefaultLimit})
		require.NoError(t, err)
		assert.Empty(t, res.Lobbies)
		assert.Equal(t, page, res.Page)
	}
}

func TestStats(t *testing.T) {
	pro := summary("a", "h", models.GameCODMobile, 3, 4)
	pro.Lobby.SkillLevel = models.SkillPro
	voice := summary("b", "h", models.GameFreeFire, 2, 4)
	voice.Lobby.VoiceChat = true
	plain := summary("c", "h", models.GamePUBGMobile, 1, 4)

	st, err := NewEngine(&fakeSnapshot{summaries: []models.LobbySummary{pro, voice, plain}}).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{ActiveLobbies: 3, VoiceLobbies: 1, ProLobbies: 1, PlayersInLobbies: 6}, st)
}

func TestSnapshotError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(&fakeSnapshot{err: boom})

	_, err := engine.ListLobbies(context.Background(), Query{})
	assert.ErrorIs(t, err, boom)
	_, err = engine.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestListLobbiesOverMemStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemStore()
	require.NoError(t, err)

	host, err := s.CreateUser(ctx, models.User{Nickname: "Shadow", Email: "shadow@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	first, err := s.CreateLobby(ctx, models.Lobby{HostID: host.ID, Title: "Early", Game: models.GameCODMobile, Mode: "Ranked", MaxPlayers: 2})
	require.NoError(t, err)
	second, err := s.CreateLobby(ctx, models.Lobby{HostID: host.ID, Title: "Late", Game: models.GameCODMobile, Mode: "Ranked", MaxPlayers: 4})
	require.NoError(t, err)
	_, err = s.AddMembership(ctx, first.ID, uuid.New())
	require.NoError(t, err)

	res, err := NewEngine(s).ListLobbies(ctx, Query{Text: "shadow"})
	require.NoError(t, err)
	require.Len(t, res.Lobbies, 2)
	assert.Equal(t, second.ID, res.Lobbies[0].ID)
	assert.Equal(t, 1, res.Lobbies[0].MemberCount)
	assert.Equal(t, 2, res.Lobbies[1].MemberCount)
	assert.True(t, res.Lobbies[1].IsFull)
	assert.Equal(t, "Shadow", res.Lobbies[1].HostNickname)
}
