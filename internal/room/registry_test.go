package room

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeighmorg/poker-game/internal/game"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(quartz.NewMock(t), testLogger())
	reg.SetSeedFunc(func() int64 { return 42 })
	return reg
}

func TestRegistryCreate(t *testing.T) {
	reg := newTestRegistry(t)

	r := reg.Create("lobby", "Main Lobby", game.DefaultSettings())
	assert.Equal(t, "lobby", r.ID)
	assert.Equal(t, "Main Lobby", r.Name)
	assert.Equal(t, 1, reg.Count())

	// Creating the same id again returns the existing room.
	again := reg.Create("lobby", "Other Name", game.DefaultSettings())
	assert.Same(t, r, again)
	assert.Equal(t, 1, reg.Count())
}

func TestRegistryCreateGeneratesShortIDs(t *testing.T) {
	reg := newTestRegistry(t)

	a := reg.Create("", "", game.DefaultSettings())
	b := reg.Create("", "", game.DefaultSettings())

	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Room "+a.ID, a.Name, "default name derives from the id")
}

func TestRegistryGetAndGetOrCreate(t *testing.T) {
	reg := newTestRegistry(t)

	_, ok := reg.Get("missing")
	assert.False(t, ok)

	r := reg.GetOrCreate("holdem", game.DefaultSettings())
	require.NotNil(t, r)
	assert.Equal(t, "holdem", r.ID)

	got, ok := reg.Get("holdem")
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Same(t, r, reg.GetOrCreate("holdem", game.DefaultSettings()))
}

func TestRegistryDelete(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Create("a", "", game.DefaultSettings())
	require.Equal(t, 1, reg.Count())

	reg.Delete("a")
	assert.Equal(t, 0, reg.Count())
	_, ok := reg.Get("a")
	assert.False(t, ok)

	reg.Delete("a") // deleting twice is fine
}

func TestRegistryDeleteIfEmpty(t *testing.T) {
	reg := newTestRegistry(t)

	r := reg.Create("a", "", game.DefaultSettings())
	assert.True(t, reg.DeleteIfEmpty("a"), "nobody there")
	assert.Equal(t, 0, reg.Count())

	r = reg.Create("b", "", game.DefaultSettings())
	_, _, ok := r.Join("Alice")
	require.True(t, ok)
	assert.False(t, reg.DeleteIfEmpty("b"), "occupied rooms stay")
	assert.Equal(t, 1, reg.Count())

	assert.False(t, reg.DeleteIfEmpty("missing"))
}

func TestRegistryRoomsSnapshot(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Create("a", "", game.DefaultSettings())
	reg.Create("b", "", game.DefaultSettings())

	rooms := reg.Rooms()
	assert.Len(t, rooms, 2)
}
