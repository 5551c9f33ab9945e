// Package catalog lists the supported games, their modes and the per-game player ceilings.
package catalog

import (
	"strings"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"
)

// DefaultCeiling is the max_players bound applied to every game.
const DefaultCeiling = 100

// GameInfo describes one supported title.
type GameInfo struct {
	Game       models.Game `json:"game"`
	Name       string      `json:"name"`
	Modes      []string    `json:"modes"`
	MaxPlayers int         `json:"max_players"`
}

// Catalog answers the (game, mode) and ceiling questions used to validate lobby input.
type Catalog struct {
	games map[models.Game]GameInfo
	order []models.Game
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(
		GameInfo{
			Game:       models.GameCODMobile,
			Name:       "Call of Duty: Mobile",
			Modes:      []string{"Battle Royale", "Multiplayer", "Ranked", "Custom Room"},
			MaxPlayers: DefaultCeiling,
		},
		GameInfo{
			Game:       models.GamePUBGMobile,
			Name:       "PUBG Mobile",
			Modes:      []string{"Classic", "Arcade", "Arena", "Ranked", "Custom Room"},
			MaxPlayers: DefaultCeiling,
		},
		GameInfo{
			Game:       models.GameFreeFire,
			Name:       "Free Fire",
			Modes:      []string{"Battle Royale", "Clash Squad", "Ranked", "Custom Room"},
			MaxPlayers: DefaultCeiling,
		},
	)
}

// New builds a catalog from the given entries, keeping their order.
func New(games ...GameInfo) *Catalog {
	c := &Catalog{games: make(map[models.Game]GameInfo, len(games))}
	for _, g := range games {
		if _, dup := c.games[g.Game]; !dup {
			c.order = append(c.order, g.Game)
		}
		c.games[g.Game] = g
	}
	return c
}

// Games returns every entry in display order.
func (c *Catalog) Games() []GameInfo {
	out := make([]GameInfo, 0, len(c.order))
	for _, g := range c.order {
		out = append(out, c.games[g])
	}
	return out
}

// Lookup returns the entry for game.
func (c *Catalog) Lookup(game models.Game) (GameInfo, bool) {
	info, ok := c.games[game]
	return info, ok
}

// Validate checks that mode belongs to game and that maxPlayers fits under the game's ceiling.
// Mode comparison ignores case and surrounding spaces.
func (c *Catalog) Validate(game models.Game, mode string, maxPlayers int) error {
	info, ok := c.games[game]
	if !ok {
		return apperr.InvalidArg("unsupported game")
	}
	if !info.hasMode(mode) {
		return apperr.InvalidArg("mode " + strings.TrimSpace(mode) + " is not available for " + info.Name)
	}
	if maxPlayers <= 0 || maxPlayers > info.MaxPlayers {
		return apperr.InvalidArg("max_players is out of range for " + info.Name)
	}
	return nil
}

// CanonicalMode returns the catalog spelling of mode, or mode unchanged when it is unknown.
func (c *Catalog) CanonicalMode(game models.Game, mode string) string {
	info, ok := c.games[game]
	if !ok {
		return mode
	}
	for _, m := range info.Modes {
		if strings.EqualFold(m, strings.TrimSpace(mode)) {
			return m
		}
	}
	return mode
}

func (g GameInfo) hasMode(mode string) bool {
	mode = strings.TrimSpace(mode)
	for _, m := range g.Modes {
		if strings.EqualFold(m, mode) {
			return true
		}
	}
	return false
}
