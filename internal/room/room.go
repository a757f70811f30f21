// Package room owns game lifecycle around the engine: it serializes
// action application per room, schedules AI turns, arms disconnect
// auto-fold timers, and restarts hands after showdown. All timing goes
// through an injectable quartz clock so tests can drive it.
package room

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/jeighmorg/poker-game/internal/game"
)

const nextHandDelay = 5 * time.Second

// Room binds one GameState to the lock and timers that drive it. The
// engine is only ever touched with mu held; notifications fire after
// the lock is released.
type Room struct {
	ID        string
	Name      string
	Settings  game.Settings
	CreatedAt time.Time

	mu         sync.Mutex
	state      *game.GameState
	rng        *rand.Rand
	clock      quartz.Clock
	logger     *log.Logger
	spectators map[string]bool

	foldTimers    map[string]*quartz.Timer
	aiTimer       *quartz.Timer
	nextHandTimer *quartz.Timer

	onChange func()
}

// New creates a room with its own GameState drawing randomness from rng.
func New(id, name string, settings game.Settings, rng *rand.Rand, clock quartz.Clock, logger *log.Logger) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		Settings:   settings,
		CreatedAt:  time.Now(),
		state:      game.NewGame(settings, rng),
		rng:        rng,
		clock:      clock,
		logger:     logger.WithPrefix("room").With("room", id),
		spectators: make(map[string]bool),
		foldTimers: make(map[string]*quartz.Timer),
	}
}

// SetOnChange registers the callback invoked after every state change
// (player actions, timer-driven folds, hand starts). Used by the
// transport layer to broadcast fresh views.
func (r *Room) SetOnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Room) notify() {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// View returns the redacted state for one viewer.
func (r *Room) View(viewerID string) game.ClientState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.RedactedView(viewerID)
}

// Players returns a snapshot of (id, name) pairs for broadcast fan-out.
func (r *Room) Players() []PlayerRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	refs := make([]PlayerRef, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		refs = append(refs, PlayerRef{ID: p.ID, Name: p.Name, IsAI: p.IsAI, Disconnected: p.Disconnected})
	}
	return refs
}

// PlayerRef identifies a seated player without exposing engine state.
type PlayerRef struct {
	ID           string
	Name         string
	IsAI         bool
	Disconnected bool
}

// PlayerCount returns the number of seated (non-spectator) players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.state.Players {
		if !p.IsSpectator {
			count++
		}
	}
	return count
}

// SpectatorCount returns the number of registered spectators.
func (r *Room) SpectatorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spectators)
}

// AddSpectator registers a spectator by connection key.
func (r *Room) AddSpectator(key string) {
	r.mu.Lock()
	r.spectators[key] = true
	r.mu.Unlock()
}

// RemoveSpectator drops a spectator registration.
func (r *Room) RemoveSpectator(key string) {
	r.mu.Lock()
	delete(r.spectators, key)
	r.mu.Unlock()
}

// Empty reports whether nobody - seated or watching - remains.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.Players) == 0 && len(r.spectators) == 0
}

// Phase returns the current game phase.
func (r *Room) Phase() game.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Phase
}

// Join seats a new player, or resumes the seat of a disconnected player
// with the same name. ok is false when the table is full.
func (r *Room) Join(name string) (ref PlayerRef, reconnected, ok bool) {
	r.mu.Lock()

	for _, p := range r.state.Players {
		if p.Name == name && p.Disconnected {
			p.Disconnected = false
			r.stopFoldTimerLocked(p.ID)
			ref = PlayerRef{ID: p.ID, Name: p.Name}
			r.mu.Unlock()
			r.logger.Info("player reconnected", "player", name)
			r.notify()
			return ref, true, true
		}
	}

	seat := r.state.FindEmptySeat(r.Settings.MaxPlayers)
	if seat == -1 {
		r.mu.Unlock()
		return PlayerRef{}, false, false
	}
	player := r.state.AddPlayer(name, r.Settings.StartingChips, seat, false)
	ref = PlayerRef{ID: player.ID, Name: player.Name}
	r.mu.Unlock()

	r.logger.Info("player joined", "player", name, "seat", seat)
	r.notify()
	return ref, false, true
}

// AddAI seats an AI player. ok is false if no seat or bot name is free,
// or a hand is in progress.
func (r *Room) AddAI() (PlayerRef, bool) {
	r.mu.Lock()
	if r.state.Phase != game.PhaseWaiting {
		r.mu.Unlock()
		return PlayerRef{}, false
	}
	player := r.state.AddAIPlayer(r.Settings)
	if player == nil {
		r.mu.Unlock()
		return PlayerRef{}, false
	}
	ref := PlayerRef{ID: player.ID, Name: player.Name, IsAI: true}
	r.mu.Unlock()

	r.logger.Info("ai player added", "player", ref.Name)
	r.notify()
	return ref, true
}

// StartGame begins the first hand if the game can start.
func (r *Room) StartGame() bool {
	r.mu.Lock()
	if !r.state.CanStartGame() {
		r.mu.Unlock()
		return false
	}
	r.state.StartNewHand()
	r.afterChangeLocked()
	r.mu.Unlock()

	r.logger.Info("hand started")
	r.notify()
	return true
}

// HandleAction applies one action on behalf of a player. Returns false
// when the engine rejects it (wrong turn or illegal action).
func (r *Room) HandleAction(playerID string, action game.Action, amount int) bool {
	r.mu.Lock()
	applied := r.state.ProcessAction(playerID, action, amount)
	if applied {
		r.afterChangeLocked()
	}
	r.mu.Unlock()

	if applied {
		r.notify()
	}
	return applied
}

// Leave removes a player before a hand, or marks them disconnected
// mid-hand and arms the auto-fold timer.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	player := r.state.PlayerByID(playerID)
	if player == nil {
		r.mu.Unlock()
		return
	}
	if r.state.Phase == game.PhaseWaiting {
		r.state.RemovePlayer(playerID)
		r.mu.Unlock()
		r.logger.Info("player left", "player", player.Name)
		r.notify()
		return
	}
	r.markDisconnectedLocked(player)
	r.mu.Unlock()
	r.notify()
}

// Disconnect marks the player and arms a timer that folds their hand if
// it is still their turn when the turn time limit expires. Reconnecting
// first cancels the timer.
func (r *Room) Disconnect(playerID string) {
	r.mu.Lock()
	player := r.state.PlayerByID(playerID)
	if player == nil {
		r.mu.Unlock()
		return
	}
	r.markDisconnectedLocked(player)
	r.mu.Unlock()
	r.notify()
}

func (r *Room) markDisconnectedLocked(p *game.Player) {
	p.Disconnected = true
	r.logger.Info("player disconnected", "player", p.Name)

	playerID := p.ID
	r.stopFoldTimerLocked(playerID)
	timeout := time.Duration(r.Settings.TurnTimeLimit) * time.Second
	r.foldTimers[playerID] = r.clock.AfterFunc(timeout, func() {
		r.autoFold(playerID)
	})
}

func (r *Room) stopFoldTimerLocked(playerID string) {
	if timer, ok := r.foldTimers[playerID]; ok {
		timer.Stop()
		delete(r.foldTimers, playerID)
	}
}

// autoFold fires when a disconnected player's timer expires. The state
// may have moved on during the delay, so it only folds if the player is
// still the current actor.
func (r *Room) autoFold(playerID string) {
	r.mu.Lock()
	delete(r.foldTimers, playerID)

	player := r.state.PlayerByID(playerID)
	current := r.state.GetCurrentPlayer()
	if player == nil || player.Status != game.StatusActive || current == nil || current.ID != playerID {
		r.mu.Unlock()
		return
	}

	applied := r.state.ProcessAction(playerID, game.ActionFold, 0)
	if applied {
		r.logger.Info("auto-folded disconnected player", "player", player.Name)
		r.afterChangeLocked()
	}
	r.mu.Unlock()

	if applied {
		r.notify()
	}
}

// afterChangeLocked runs whatever scheduling the new state requires:
// an AI turn if an AI is next to act, or the next-hand timer after a
// showdown. Callers hold mu.
func (r *Room) afterChangeLocked() {
	if r.state.Phase == game.PhaseShowdown {
		r.scheduleNextHandLocked()
		return
	}
	r.scheduleAITurnLocked()
}

// scheduleAITurnLocked arms the AI think-time timer when the current
// player is an AI. The delay is randomized so play does not feel
// instantaneous.
func (r *Room) scheduleAITurnLocked() {
	current := r.state.GetCurrentPlayer()
	if current == nil || !current.IsAI {
		return
	}

	if r.aiTimer != nil {
		r.aiTimer.Stop()
	}
	expectedID := current.ID
	delay := time.Second + time.Duration(r.rng.Int64N(int64(2*time.Second)))
	r.aiTimer = r.clock.AfterFunc(delay, func() {
		r.runAITurn(expectedID)
	})
}

// runAITurn applies a scheduled AI decision. The decision is recomputed
// and discarded unless the same AI is still the current actor in a
// betting phase - a human action, fold timeout, or disconnect may have
// advanced the state during the think delay.
func (r *Room) runAITurn(expectedID string) {
	r.mu.Lock()
	if r.state.Phase == game.PhaseWaiting || r.state.Phase == game.PhaseShowdown {
		r.mu.Unlock()
		return
	}
	current := r.state.GetCurrentPlayer()
	if current == nil || current.ID != expectedID {
		r.mu.Unlock()
		return
	}

	decision := game.Decide(r.state, current, r.rng)
	applied := r.state.ProcessAction(current.ID, decision.Action, decision.Amount)
	if !applied {
		// The contract is that Decide only returns legal actions, but a
		// stuck table is worse than a forced fold.
		applied = r.state.ProcessAction(current.ID, game.ActionCheck, 0) ||
			r.state.ProcessAction(current.ID, game.ActionFold, 0)
	}
	if applied {
		r.logger.Debug("ai acted", "player", current.Name, "action", decision.Action)
		r.afterChangeLocked()
	}
	r.mu.Unlock()

	if applied {
		r.notify()
	}
}

// scheduleNextHandLocked arms the post-showdown restart timer.
func (r *Room) scheduleNextHandLocked() {
	if r.nextHandTimer != nil {
		r.nextHandTimer.Stop()
	}
	r.nextHandTimer = r.clock.AfterFunc(nextHandDelay, r.autoNextHand)
}

// autoNextHand starts the next hand after the showdown pause, unless
// the room emptied out or too few funded players remain.
func (r *Room) autoNextHand() {
	r.mu.Lock()
	if len(r.state.Players) == 0 && len(r.spectators) == 0 {
		r.mu.Unlock()
		return
	}

	// Showdown is the only phase this timer fires from; anything else
	// means the room was reset meanwhile.
	if r.state.Phase != game.PhaseShowdown {
		r.mu.Unlock()
		return
	}

	r.state.Phase = game.PhaseWaiting
	if !r.state.CanStartGame() {
		r.mu.Unlock()
		r.notify()
		return
	}
	r.state.StartNewHand()
	r.afterChangeLocked()
	r.mu.Unlock()

	r.logger.Info("next hand started")
	r.notify()
}

// Stop cancels all pending timers. Called when the room is torn down.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aiTimer != nil {
		r.aiTimer.Stop()
	}
	if r.nextHandTimer != nil {
		r.nextHandTimer.Stop()
	}
	for id, timer := range r.foldTimers {
		timer.Stop()
		delete(r.foldTimers, id)
	}
}
