package room

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/jeighmorg/poker-game/internal/game"
	"github.com/jeighmorg/poker-game/internal/randutil"
)

// Registry is the process-wide room table with an explicit
// create/lookup/destroy lifecycle. It is injected into the transport
// layer rather than held as a global.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	clock  quartz.Clock
	logger *log.Logger
	seed   func() int64
}

// NewRegistry creates an empty registry. Rooms created by it share the
// given clock; each room gets its own time-seeded RNG.
func NewRegistry(clock quartz.Clock, logger *log.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		clock:  clock,
		logger: logger,
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// SetSeedFunc overrides how new rooms derive their RNG seed. Tests use
// this for deterministic shuffles and AI play.
func (reg *Registry) SetSeedFunc(fn func() int64) {
	reg.mu.Lock()
	reg.seed = fn
	reg.mu.Unlock()
}

// Create registers a new room. An empty id gets a generated short id;
// an empty name defaults to "Room <id>".
func (reg *Registry) Create(id, name string, settings game.Settings) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if id == "" {
		id = uuid.NewString()[:8]
	}
	if name == "" {
		name = "Room " + id
	}
	if existing, ok := reg.rooms[id]; ok {
		return existing
	}

	r := New(id, name, settings, randutil.New(reg.seed()), reg.clock, reg.logger)
	reg.rooms[id] = r
	reg.logger.Info("room created", "room", id)
	return r
}

// Get looks up a room by id.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// GetOrCreate returns the room with the given id, creating it with the
// provided settings if it does not exist. Rooms are auto-created on
// first join.
func (reg *Registry) GetOrCreate(id string, settings game.Settings) *Room {
	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok {
		return r
	}
	return reg.Create(id, "", settings)
}

// Delete destroys a room, cancelling its timers.
func (reg *Registry) Delete(id string) {
	reg.mu.Lock()
	r, ok := reg.rooms[id]
	if ok {
		delete(reg.rooms, id)
	}
	reg.mu.Unlock()

	if ok {
		r.Stop()
		reg.logger.Info("room deleted", "room", id)
	}
}

// DeleteIfEmpty tears the room down when nobody remains. Returns true
// if the room was removed.
func (reg *Registry) DeleteIfEmpty(id string) bool {
	r, ok := reg.Get(id)
	if !ok || !r.Empty() {
		return false
	}
	reg.Delete(id)
	return true
}

// Rooms returns a snapshot of every live room.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
