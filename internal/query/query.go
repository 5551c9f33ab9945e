// Package query answers read-only lobby listings from one point-in-time snapshot of the store.
// It never takes the per-lobby exclusion, so member counts may trail a just-committed join.
package query

import (
	"context"
	"strings"

	"squadup/backend/internal/models"
	"squadup/backend/internal/store"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Snapshotter is the part of the store the engine reads from.
type Snapshotter interface {
	Snapshot(ctx context.Context, filter store.ListFilter) ([]models.LobbySummary, error)
}

// Query selects and pages lobbies. Zero values mean "no constraint".
type Query struct {
	Game       models.Game
	Text       string
	SkillLevel models.SkillLevel
	Language   string
	Region     string
	VoiceChat  *bool
	OpenOnly   bool

	Page  int
	Limit int
}

// LobbyView is a lobby augmented with its derived member count and host display name.
type LobbyView struct {
	models.Lobby
	MemberCount  int    `json:"member_count"`
	HostNickname string `json:"host_nickname"`
	IsFull       bool   `json:"is_full"`
}

// Result is one page of matching lobbies. Total counts every match across all pages.
type Result struct {
	Lobbies []LobbyView
	Total   int
	Page    int
	Limit   int
}

// Stats backs the dashboard tiles.
type Stats struct {
	ActiveLobbies    int `json:"active_lobbies"`
	VoiceLobbies     int `json:"voice_lobbies"`
	ProLobbies       int `json:"pro_lobbies"`
	PlayersInLobbies int `json:"players_in_lobbies"`
}

type Engine struct {
	src Snapshotter
}

func NewEngine(src Snapshotter) *Engine {
	return &Engine{src: src}
}

// ListLobbies returns active lobbies, newest first, matching q.
func (e *Engine) ListLobbies(ctx context.Context, q Query) (Result, error) {
	q = q.normalize()

	summaries, err := e.src.Snapshot(ctx, store.ListFilter{Game: q.Game})
	if err != nil {
		return Result{}, err
	}

	matched := make([]LobbyView, 0, len(summaries))
	for _, s := range summaries {
		v := newView(s)
		if q.match(v) {
			matched = append(matched, v)
		}
	}

	res := Result{Total: len(matched), Page: q.Page, Limit: q.Limit}
	// Compare page numbers before multiplying so a huge page cannot overflow the offset.
	pages := (len(matched) + q.Limit - 1) / q.Limit
	if q.Page > pages {
		res.Lobbies = []LobbyView{}
		return res, nil
	}
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	res.Lobbies = matched[start:end]
	return res, nil
}

// Stats counts active lobbies from a single snapshot.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	summaries, err := e.src.Snapshot(ctx, store.ListFilter{})
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, s := range summaries {
		st.ActiveLobbies++
		st.PlayersInLobbies += s.MemberCount
		if s.Lobby.VoiceChat {
			st.VoiceLobbies++
		}
		if s.Lobby.SkillLevel == models.SkillPro {
			st.ProLobbies++
		}
	}
	return st, nil
}

func newView(s models.LobbySummary) LobbyView {
	return LobbyView{
		Lobby:        s.Lobby,
		MemberCount:  s.MemberCount,
		HostNickname: s.HostNickname,
		IsFull:       s.MemberCount >= s.Lobby.MaxPlayers,
	}
}

func (q Query) normalize() Query {
	q.Text = strings.ToLower(strings.TrimSpace(q.Text))
	q.Language = strings.TrimSpace(q.Language)
	q.Region = strings.TrimSpace(q.Region)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q Query) match(v LobbyView) bool {
	if q.Text != "" &&
		!strings.Contains(strings.ToLower(v.Title), q.Text) &&
		!strings.Contains(strings.ToLower(v.HostNickname), q.Text) {
		return false
	}
	// "any" is a real attribute value, not a wildcard: a filter for pro lobbies skips "any".
	if q.SkillLevel != "" && v.SkillLevel != q.SkillLevel {
		return false
	}
	if q.Language != "" && !strings.EqualFold(v.Language, q.Language) {
		return false
	}
	if q.Region != "" && !strings.EqualFold(v.Region, q.Region) {
		return false
	}
	if q.VoiceChat != nil && v.VoiceChat != *q.VoiceChat {
		return false
	}
	if q.OpenOnly && v.IsFull {
		return false
	}
	return true
}
