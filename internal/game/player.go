package game

import (
	"encoding/json"
	"fmt"

	"github.com/jeighmorg/poker-game/internal/deck"
)

// Status represents a player's state within the current hand
type Status int

const (
	StatusWaiting Status = iota
	StatusActive
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

// String returns the wire name for a status
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusSittingOut:
		return "sitting-out"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its wire name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status wire name
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "waiting":
		*s = StatusWaiting
	case "active":
		*s = StatusActive
	case "folded":
		*s = StatusFolded
	case "all-in":
		*s = StatusAllIn
	case "sitting-out":
		*s = StatusSittingOut
	default:
		return fmt.Errorf("unknown player status %q", name)
	}
	return nil
}

// Player represents a seated player (or spectator) in a game.
//
// Bet is the amount committed in the current betting round; it is
// collected into the pot when the round completes. TotalBet is the
// amount committed across the whole hand and drives side-pot layering.
type Player struct {
	ID           string
	Name         string
	Chips        int
	Cards        []deck.Card
	Bet          int
	TotalBet     int
	Status       Status
	IsAI         bool
	IsSpectator  bool
	SeatIndex    int
	Disconnected bool

	// acted reports whether the player has acted in the current betting
	// round. Blind posts do not count; a full raise clears it for
	// everyone else.
	acted bool
}

// InHand returns true if the player still contests the pot
func (p *Player) InHand() bool {
	return !p.IsSpectator && (p.Status == StatusActive || p.Status == StatusAllIn)
}
