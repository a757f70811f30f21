package game

import (
	"encoding/json"
	"fmt"
)

// Phase represents the game phase state machine:
// waiting -> preflop -> flop -> turn -> river -> showdown -> (waiting)
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

// String returns the wire name for a phase
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the phase as its wire name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase wire name
func (p *Phase) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for phase := PhaseWaiting; phase <= PhaseShowdown; phase++ {
		if phase.String() == name {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}

// Action represents a player action
type Action int

const (
	ActionFold Action = iota
	ActionCheck
	ActionCall
	ActionRaise
	ActionAllIn
)

// String returns the wire name for an action
func (a Action) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionAllIn:
		return "all-in"
	default:
		return "unknown"
	}
}

// ParseAction maps a wire name back to an Action
func ParseAction(name string) (Action, bool) {
	for a := ActionFold; a <= ActionAllIn; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the action as its wire name
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action wire name
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseAction(name)
	if !ok {
		return fmt.Errorf("unknown action %q", name)
	}
	*a = parsed
	return nil
}

// GetValidActions derives the legal action set for a player. Folding is
// always legal for an active player; checking requires nothing owed;
// calling requires enough chips to cover the owed amount; raising
// requires chips beyond the call. All-in is always available.
func (g *GameState) GetValidActions(p *Player) []Action {
	if p == nil || p.Status != StatusActive {
		return nil
	}

	actions := []Action{ActionFold}
	toCall := g.CurrentBet - p.Bet

	if toCall == 0 {
		actions = append(actions, ActionCheck)
	} else if p.Chips >= toCall {
		actions = append(actions, ActionCall)
	}
	if p.Chips > toCall {
		actions = append(actions, ActionRaise)
	}
	actions = append(actions, ActionAllIn)
	return actions
}

// hasValidAction reports whether action is in the player's legal set.
func (g *GameState) hasValidAction(p *Player, action Action) bool {
	for _, a := range g.GetValidActions(p) {
		if a == action {
			return true
		}
	}
	return false
}

// ProcessAction validates and applies one action from the current-turn
// player. For raises, amount is the target total bet for the round; a
// request below the legal minimum is clamped up to it. Returns false
// and leaves the state untouched when the action is rejected.
func (g *GameState) ProcessAction(playerID string, action Action, amount int) bool {
	player := g.PlayerByID(playerID)
	if player == nil {
		return false
	}

	current := g.GetCurrentPlayer()
	if current == nil || current.ID != playerID {
		return false
	}

	if !g.hasValidAction(player, action) {
		return false
	}

	toCall := g.CurrentBet - player.Bet

	switch action {
	case ActionFold:
		player.Status = StatusFolded

	case ActionCheck:
		if toCall != 0 {
			return false
		}

	case ActionCall:
		callAmount := min(toCall, player.Chips)
		player.Chips -= callAmount
		player.Bet += callAmount
		player.TotalBet += callAmount
		if player.Chips == 0 {
			player.Status = StatusAllIn
		}

	case ActionRaise:
		if amount < g.CurrentBet+g.MinRaise {
			amount = g.CurrentBet + g.MinRaise
		}
		raiseTotal := amount - player.Bet
		if raiseTotal > player.Chips {
			return false
		}

		raiseBy := amount - g.CurrentBet
		g.MinRaise = max(g.MinRaise, raiseBy)
		g.CurrentBet = amount

		player.Chips -= raiseTotal
		player.Bet = amount
		player.TotalBet += raiseTotal
		if player.Chips == 0 {
			player.Status = StatusAllIn
		}

		// A full raise reopens the action for everyone.
		g.resetActed()

	case ActionAllIn:
		allInAmount := player.Chips
		player.Chips = 0
		player.Bet += allInAmount
		player.TotalBet += allInAmount
		player.Status = StatusAllIn

		if player.Bet > g.CurrentBet {
			raiseBy := player.Bet - g.CurrentBet
			// A short all-in raises the price to call but does not
			// reopen betting for players who already matched.
			if raiseBy >= g.MinRaise {
				g.resetActed()
			}
			g.MinRaise = max(g.MinRaise, raiseBy)
			g.CurrentBet = player.Bet
		}
	}

	player.acted = true
	g.LastAction = &LastAction{PlayerID: playerID, Action: action, Amount: amount}

	g.advance()
	return true
}

// resetActed clears everyone's acted flag for the round.
func (g *GameState) resetActed() {
	for _, p := range g.Players {
		p.acted = false
	}
}

// advance runs after every accepted action: it ends the hand when one
// player remains, ends the round when betting is settled, or passes the
// turn to the next active seat.
func (g *GameState) advance() {
	inHand := g.playersInHand()

	if len(inHand) == 1 {
		g.collectBets()
		winner := inHand[0]
		amount := g.Pot
		winner.Chips += amount
		g.Pot = 0
		g.Winners = []WinnerInfo{{PlayerID: winner.ID, Amount: amount, HandName: "Last player standing"}}
		g.Phase = PhaseShowdown
		return
	}

	if g.isBettingComplete() {
		g.moveToNextPhase()
		return
	}

	g.CurrentPlayerIndex = g.nextActiveIndex(g.CurrentPlayerIndex)
}

// isBettingComplete reports whether the current betting round is done:
// every player who can still act has acted and matched the current bet.
// With at most one active player left (everyone else all-in), betting
// ends as soon as that player has matched.
func (g *GameState) isBettingComplete() bool {
	active := g.activePlayers()

	if len(active) == 0 {
		return true
	}
	if len(active) == 1 {
		return active[0].Bet == g.CurrentBet
	}

	for _, p := range active {
		if p.Bet != g.CurrentBet || !p.acted {
			return false
		}
	}
	return true
}

// collectBets sweeps the round's bets into the pot.
func (g *GameState) collectBets() {
	for _, p := range g.Players {
		g.Pot += p.Bet
		p.Bet = 0
	}
}

// moveToNextPhase collects bets, resets round state, and deals the next
// street. When no further betting is possible it runs out the board and
// settles immediately; completing the river settles directly.
func (g *GameState) moveToNextPhase() {
	g.collectBets()
	g.CurrentBet = 0
	g.MinRaise = g.BigBlind
	g.resetActed()

	skipToShowdown := len(g.activePlayers()) <= 1

	switch g.Phase {
	case PhasePreflop:
		g.Deck.Burn()
		g.CommunityCards = append(g.CommunityCards, g.Deck.DrawN(3)...)
		g.Phase = PhaseFlop
	case PhaseFlop:
		g.Deck.Burn()
		g.CommunityCards = append(g.CommunityCards, g.Deck.DrawN(1)...)
		g.Phase = PhaseTurn
	case PhaseTurn:
		g.Deck.Burn()
		g.CommunityCards = append(g.CommunityCards, g.Deck.DrawN(1)...)
		g.Phase = PhaseRiver
	case PhaseRiver:
		g.settle()
		g.Phase = PhaseShowdown
		return
	default:
		return
	}

	if skipToShowdown {
		for len(g.CommunityCards) < 5 {
			g.Deck.Burn()
			g.CommunityCards = append(g.CommunityCards, g.Deck.DrawN(1)...)
		}
		g.settle()
		g.Phase = PhaseShowdown
		return
	}

	g.CurrentPlayerIndex = g.nextActiveIndex(g.DealerIndex)
}
