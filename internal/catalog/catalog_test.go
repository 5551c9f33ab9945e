package catalog

import (
	"testing"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	games := c.Games()
	assert.Len(t, games, len(models.Games))
	for i, g := range games {
		assert.Equal(t, models.Games[i], g.Game)
		assert.NotEmpty(t, g.Modes)
	}
}

func TestValidate(t *testing.T) {
	c := Default()

	tests := []struct {
		name       string
		game       models.Game
		mode       string
		maxPlayers int
		wantErr    bool
	}{
		{"valid", models.GameCODMobile, "Battle Royale", 4, false},
		{"mode case is ignored", models.GameFreeFire, " clash squad ", 4, false},
		{"mode from another game", models.GameCODMobile, "Clash Squad", 4, true},
		{"unknown game", models.Game("fortnite"), "Battle Royale", 4, true},
		{"zero players", models.GamePUBGMobile, "Classic", 0, true},
		{"ceiling", models.GamePUBGMobile, "Classic", DefaultCeiling, false},
		{"above ceiling", models.GamePUBGMobile, "Classic", DefaultCeiling + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.game, tt.mode, tt.maxPlayers)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCustomCeiling(t *testing.T) {
	c := New(GameInfo{Game: models.GameFreeFire, Name: "Free Fire", Modes: []string{"Ranked"}, MaxPlayers: 4})

	assert.NoError(t, c.Validate(models.GameFreeFire, "Ranked", 4))
	assert.Error(t, c.Validate(models.GameFreeFire, "Ranked", 5))
}

func TestCanonicalMode(t *testing.T) {
	c := Default()
	assert.Equal(t, "Custom Room", c.CanonicalMode(models.GameCODMobile, "custom room"))
	assert.Equal(t, "Zombies", c.CanonicalMode(models.GameCODMobile, "Zombies"))
}
