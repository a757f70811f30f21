package game

import (
	rand "math/rand/v2"

	"github.com/jeighmorg/poker-game/internal/evaluator"
)

// Decision is an AI-chosen action. Amount is only meaningful for raises.
type Decision struct {
	Action Action
	Amount int
}

// Decide picks a legal action for the player using a simple heuristic:
// hand strength (category value normalised to 0-1, from whatever cards
// are visible) plus a bounded random perturbation, weighed against pot
// odds. Intentionally non-optimal; the only contract is that the
// returned action is currently legal for the player.
func Decide(g *GameState, p *Player, rng *rand.Rand) Decision {
	valid := g.GetValidActions(p)
	toCall := g.CurrentBet - p.Bet
	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(g.TotalPot()+toCall)
	}

	hand := evaluator.Evaluate(p.Cards, g.CommunityCards)
	strength := float64(hand.Category.Value()) / 10.0
	randomFactor := rng.Float64() * 0.3

	if strength+randomFactor > 0.7 && contains(valid, ActionRaise) {
		amount := g.CurrentBet + g.MinRaise + rng.IntN(g.BigBlind*2)
		if maxAmount := p.Chips + p.Bet; amount > maxAmount {
			amount = maxAmount
		}
		if amount < g.CurrentBet+g.MinRaise {
			// Too shallow for a legal min raise; shove instead.
			return Decision{Action: ActionAllIn}
		}
		return Decision{Action: ActionRaise, Amount: amount}
	}

	if strength+randomFactor > 0.4 || potOdds < 0.2 {
		if contains(valid, ActionCheck) {
			return Decision{Action: ActionCheck}
		}
		if contains(valid, ActionCall) && toCall < p.Chips*3/10 {
			return Decision{Action: ActionCall}
		}
	}

	if contains(valid, ActionCheck) {
		return Decision{Action: ActionCheck}
	}
	return Decision{Action: ActionFold}
}

func contains(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
