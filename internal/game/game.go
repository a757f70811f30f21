// Package game implements the authoritative Texas Hold'em engine: a
// synchronous state machine that validates and applies player actions,
// advances betting rounds, and settles pots. The engine performs no
// I/O; callers own serialization (one action at a time per game) and
// all scheduling.
package game

import (
	rand "math/rand/v2"

	"github.com/google/uuid"

	"github.com/jeighmorg/poker-game/internal/deck"
)

// aiNames is the pool of names handed out to AI players, in order.
var aiNames = []string{"Bot Alice", "Bot Bob", "Bot Charlie", "Bot Diana", "Bot Eve", "Bot Frank"}

// Settings configures a game at creation time
type Settings struct {
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	StartingChips int `json:"startingChips"`
	MaxPlayers    int `json:"maxPlayers"`
	TurnTimeLimit int `json:"turnTimeLimit"` // seconds
}

// DefaultSettings mirrors the defaults used for ad hoc rooms
func DefaultSettings() Settings {
	return Settings{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
		MaxPlayers:    6,
		TurnTimeLimit: 30,
	}
}

// LastAction records the most recent processed action
type LastAction struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount,omitempty"`
}

// WinnerInfo reports one winner's share at showdown
type WinnerInfo struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	HandName string `json:"handName"`
}

// SidePot is a settled pot layer with the players who could win it
type SidePot struct {
	Amount            int      `json:"amount"`
	EligiblePlayerIDs []string `json:"eligiblePlayerIds"`
}

// GameState is the authoritative state of one table. It is created
// once per room and lives for the room's lifetime; StartNewHand resets
// per-hand fields but preserves chip stacks and dealer rotation.
//
// GameState is not safe for concurrent use. Exactly one action may be
// applied at a time; the room layer owns the lock.
type GameState struct {
	ID                 string
	Players            []*Player // ordered by SeatIndex
	CommunityCards     []deck.Card
	Pot                int // collected chips; excludes uncollected round bets
	SidePots           []SidePot
	CurrentBet         int
	MinRaise           int
	DealerIndex        int
	CurrentPlayerIndex int
	Phase              Phase
	Deck               *deck.Deck
	SmallBlind         int
	BigBlind           int
	LastAction         *LastAction
	Winners            []WinnerInfo

	rng *rand.Rand
}

// NewGame creates an empty game in the waiting phase. All randomness
// (shuffling) is drawn from rng.
func NewGame(settings Settings, rng *rand.Rand) *GameState {
	return &GameState{
		ID:         uuid.NewString(),
		Players:    []*Player{},
		Phase:      PhaseWaiting,
		Deck:       deck.NewDeck(rng),
		SmallBlind: settings.SmallBlind,
		BigBlind:   settings.BigBlind,
		MinRaise:   settings.BigBlind,
		rng:        rng,
	}
}

// AddPlayer seats a new player. Players are kept ordered by seat index.
func (g *GameState) AddPlayer(name string, startingChips, seatIndex int, isAI bool) *Player {
	player := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Chips:     startingChips,
		Status:    StatusWaiting,
		IsAI:      isAI,
		SeatIndex: seatIndex,
	}

	// Insert in seat order
	pos := len(g.Players)
	for i, p := range g.Players {
		if p.SeatIndex > seatIndex {
			pos = i
			break
		}
	}
	g.Players = append(g.Players, nil)
	copy(g.Players[pos+1:], g.Players[pos:])
	g.Players[pos] = player
	return player
}

// RemovePlayer removes a player by id. Callers must only remove during
// the waiting phase; removal mid-hand leaves the state inconsistent
// unless the player was already folded or sitting out.
func (g *GameState) RemovePlayer(playerID string) {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return
		}
	}
}

// AddAIPlayer seats an AI player in the first empty seat with the next
// unused bot name. Returns nil if no name or seat is free.
func (g *GameState) AddAIPlayer(settings Settings) *Player {
	used := make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		used[p.Name] = true
	}
	name := ""
	for _, n := range aiNames {
		if !used[n] {
			name = n
			break
		}
	}
	if name == "" {
		return nil
	}

	seat := g.FindEmptySeat(settings.MaxPlayers)
	if seat == -1 {
		return nil
	}
	return g.AddPlayer(name, settings.StartingChips, seat, true)
}

// FindEmptySeat returns the lowest unoccupied seat index, or -1 if the
// table is full.
func (g *GameState) FindEmptySeat(maxPlayers int) int {
	occupied := make(map[int]bool, len(g.Players))
	for _, p := range g.Players {
		if !p.IsSpectator {
			occupied[p.SeatIndex] = true
		}
	}
	for seat := 0; seat < maxPlayers; seat++ {
		if !occupied[seat] {
			return seat
		}
	}
	return -1
}

// PlayerByID returns the player with the given id, or nil.
func (g *GameState) PlayerByID(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// CanStartGame returns true iff the game is waiting and at least two
// funded, non-spectator players are seated.
func (g *GameState) CanStartGame() bool {
	if g.Phase != PhaseWaiting {
		return false
	}
	ready := 0
	for _, p := range g.Players {
		if !p.IsSpectator && p.Chips > 0 {
			ready++
		}
	}
	return ready >= 2
}

// GetCurrentPlayer returns the player whose turn it is, or nil outside
// of betting phases.
func (g *GameState) GetCurrentPlayer() *Player {
	if g.Phase == PhaseWaiting || g.Phase == PhaseShowdown {
		return nil
	}
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// TotalPot returns collected chips plus uncollected round bets.
func (g *GameState) TotalPot() int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Bet
	}
	return total
}

// playersInHand returns the players still contesting the pot.
func (g *GameState) playersInHand() []*Player {
	var in []*Player
	for _, p := range g.Players {
		if p.InHand() {
			in = append(in, p)
		}
	}
	return in
}

// activePlayers returns the players who can still act this round.
func (g *GameState) activePlayers() []*Player {
	var active []*Player
	for _, p := range g.Players {
		if !p.IsSpectator && p.Status == StatusActive {
			active = append(active, p)
		}
	}
	return active
}

// nextActiveIndex walks seats clockwise from fromIndex (exclusive),
// wrapping, and returns the first seat whose player is active. Returns
// -1 if a full loop finds none.
func (g *GameState) nextActiveIndex(fromIndex int) int {
	n := len(g.Players)
	if n == 0 {
		return -1
	}
	index := (fromIndex + 1) % n
	for i := 0; i < n; i++ {
		if g.Players[index].Status == StatusActive {
			return index
		}
		index = (index + 1) % n
	}
	return -1
}
