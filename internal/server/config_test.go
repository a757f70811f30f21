package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeighmorg/poker-game/internal/game"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Empty(t, cfg.Rooms)
}

func TestLoadConfigParsesRooms(t *testing.T) {
	t.Parallel()

	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

room "high-stakes" {
  small_blind    = 50
  big_blind      = 100
  starting_chips = 5000
  max_players    = 4
  ai_players     = 2
}

room "casual" {
  small_blind = 5
  big_blind   = 10
}
`
	path := filepath.Join(t.TempDir(), "poker.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	require.Len(t, cfg.Rooms, 2)
	high := cfg.Rooms[0]
	assert.Equal(t, "high-stakes", high.Name)
	assert.Equal(t, 50, high.SmallBlind)
	assert.Equal(t, 100, high.BigBlind)
	assert.Equal(t, 5000, high.StartingChips)
	assert.Equal(t, 4, high.MaxPlayers)
	assert.Equal(t, 2, high.AIPlayers)

	// Unset room fields inherit the engine defaults.
	casual := cfg.Rooms[1]
	defaults := game.DefaultSettings()
	assert.Equal(t, defaults.StartingChips, casual.StartingChips)
	assert.Equal(t, defaults.MaxPlayers, casual.MaxPlayers)
	assert.Equal(t, defaults.TurnTimeLimit, casual.TurnTimeLimit)

	settings := casual.Settings()
	assert.Equal(t, 5, settings.SmallBlind)
	assert.Equal(t, 10, settings.BigBlind)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server { port = `), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMergeSettings(t *testing.T) {
	t.Parallel()

	base := game.DefaultSettings()

	merged := mergeSettings(base, game.Settings{BigBlind: 100, SmallBlind: 50})
	assert.Equal(t, 50, merged.SmallBlind)
	assert.Equal(t, 100, merged.BigBlind)
	assert.Equal(t, base.StartingChips, merged.StartingChips)
	assert.Equal(t, base.MaxPlayers, merged.MaxPlayers)

	assert.Equal(t, base, mergeSettings(base, game.Settings{}), "zero overrides change nothing")
}
