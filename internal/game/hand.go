package game

// StartNewHand resets per-hand state and deals the next hand: reshuffle,
// clear board/pot/bets/winners, rotate the dealer button, post blinds,
// deal hole cards, and open preflop betting. If fewer than two funded
// players are present the game stays in the waiting phase.
func (g *GameState) StartNewHand() {
	g.Deck.Reset()
	g.CommunityCards = nil
	g.Pot = 0
	g.SidePots = nil
	g.CurrentBet = 0
	g.MinRaise = g.BigBlind
	g.Winners = nil
	g.LastAction = nil

	for _, p := range g.Players {
		p.Cards = nil
		p.Bet = 0
		p.TotalBet = 0
		p.acted = false
		if !p.IsSpectator && p.Chips > 0 {
			p.Status = StatusActive
		} else if p.Chips <= 0 {
			p.Status = StatusSittingOut
		}
	}

	if len(g.activePlayers()) < 2 {
		g.Phase = PhaseWaiting
		return
	}

	// Advance the button to the next active seat.
	dealerIndex := g.nextActiveIndex(g.DealerIndex)
	if dealerIndex == -1 {
		g.Phase = PhaseWaiting
		return
	}
	g.DealerIndex = dealerIndex

	// Heads-up the button posts the small blind and acts first preflop;
	// otherwise blinds come from the two seats after the button.
	var sbIndex, bbIndex int
	if len(g.activePlayers()) == 2 {
		sbIndex = g.DealerIndex
		bbIndex = g.nextActiveIndex(sbIndex)
	} else {
		sbIndex = g.nextActiveIndex(g.DealerIndex)
		bbIndex = g.nextActiveIndex(sbIndex)
	}

	g.postBlind(g.Players[sbIndex], g.SmallBlind)
	g.postBlind(g.Players[bbIndex], g.BigBlind)
	g.CurrentBet = g.BigBlind

	for _, p := range g.Players {
		if p.Status == StatusActive || p.Status == StatusAllIn {
			p.Cards = g.Deck.DrawN(2)
		}
	}

	g.CurrentPlayerIndex = g.nextActiveIndex(bbIndex)
	g.Phase = PhasePreflop

	// Blind posts can leave nobody with a decision (short stacks forced
	// all-in). Run the board out instead of waiting on a turn that will
	// never come.
	if g.CurrentPlayerIndex == -1 || g.isBettingComplete() {
		g.moveToNextPhase()
	}
}

// postBlind moves a forced bet into play, capped at the player's stack.
// A capped post puts the player all-in before cards are dealt.
func (g *GameState) postBlind(p *Player, amount int) {
	actual := min(amount, p.Chips)
	p.Chips -= actual
	p.Bet = actual
	p.TotalBet = actual
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
