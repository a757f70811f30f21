package game

import (
	"sort"

	"github.com/jeighmorg/poker-game/internal/evaluator"
)

// potLayer is one settlement layer: the chips contested between two
// all-in levels and the players who can win them.
type potLayer struct {
	amount   int
	eligible []*Player
}

// settle distributes the pot at showdown. Contributions are layered by
// all-in level so a short stack can only win the portion of the pot it
// was able to match; folded players' chips count toward layer amounts
// but folded players are never eligible. Each layer goes to the best
// hand among its eligible players, ties split with the integer
// remainder to the first winner in sort order (strongest hand, then
// lowest seat).
func (g *GameState) settle() {
	inHand := g.playersInHand()

	if len(inHand) == 1 {
		winner := inHand[0]
		amount := g.Pot
		winner.Chips += amount
		g.Pot = 0
		g.Winners = []WinnerInfo{{PlayerID: winner.ID, Amount: amount, HandName: "Last player standing"}}
		return
	}

	layers := g.buildPotLayers(inHand)

	// One evaluation per contender, reused across layers.
	results := make(map[string]evaluator.HandResult, len(inHand))
	for _, p := range inHand {
		results[p.ID] = evaluator.Evaluate(p.Cards, g.CommunityCards)
	}

	if len(layers) > 1 {
		g.SidePots = make([]SidePot, 0, len(layers))
		for _, layer := range layers {
			ids := make([]string, len(layer.eligible))
			for i, p := range layer.eligible {
				ids[i] = p.ID
			}
			g.SidePots = append(g.SidePots, SidePot{Amount: layer.amount, EligiblePlayerIDs: ids})
		}
	}

	amounts := make(map[string]int)
	names := make(map[string]string)
	var order []string

	for _, layer := range layers {
		if layer.amount == 0 || len(layer.eligible) == 0 {
			continue
		}

		// An uncontested layer is an overbet nobody could call; it goes
		// back to its sole contributor without counting as a win.
		if len(layer.eligible) == 1 {
			layer.eligible[0].Chips += layer.amount
			continue
		}

		winners := bestHands(layer.eligible, results)
		share := layer.amount / len(winners)
		remainder := layer.amount % len(winners)

		for i, w := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			w.Chips += amount
			if _, seen := amounts[w.ID]; !seen {
				order = append(order, w.ID)
				names[w.ID] = results[w.ID].Name
			}
			amounts[w.ID] += amount
		}
	}

	g.Winners = make([]WinnerInfo, 0, len(order))
	for _, id := range order {
		g.Winners = append(g.Winners, WinnerInfo{PlayerID: id, Amount: amounts[id], HandName: names[id]})
	}
	g.Pot = 0
}

// buildPotLayers splits the pot by the distinct all-in contribution
// levels among contenders. With no short all-in it returns the whole
// pot as a single layer.
func (g *GameState) buildPotLayers(inHand []*Player) []potLayer {
	maxContribution := 0
	for _, p := range g.Players {
		maxContribution = max(maxContribution, p.TotalBet)
	}

	levelSet := make(map[int]bool)
	for _, p := range inHand {
		if p.Status == StatusAllIn && p.TotalBet < maxContribution {
			levelSet[p.TotalBet] = true
		}
	}

	if len(levelSet) == 0 {
		return []potLayer{{amount: g.Pot, eligible: inHand}}
	}

	levels := make([]int, 0, len(levelSet)+1)
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	levels = append(levels, maxContribution)

	layers := make([]potLayer, 0, len(levels))
	prev := 0
	for _, level := range levels {
		layer := potLayer{}
		for _, p := range g.Players {
			contribution := min(p.TotalBet, level) - min(p.TotalBet, prev)
			layer.amount += contribution
		}
		for _, p := range inHand {
			if p.TotalBet > prev {
				layer.eligible = append(layer.eligible, p)
			}
		}
		if layer.amount > 0 {
			if len(layer.eligible) == 0 && len(layers) > 0 {
				// Dead money above every contender's level (a folded
				// overbet); it joins the previous layer.
				layers[len(layers)-1].amount += layer.amount
			} else {
				layers = append(layers, layer)
			}
		}
		prev = level
	}
	return layers
}

// bestHands returns the players tied for the strongest hand, ordered by
// hand strength then seat index.
func bestHands(players []*Player, results map[string]evaluator.HandResult) []*Player {
	ranked := make([]*Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		cmp := evaluator.Compare(results[ranked[i].ID], results[ranked[j].ID])
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].SeatIndex < ranked[j].SeatIndex
	})

	best := results[ranked[0].ID]
	winners := []*Player{ranked[0]}
	for _, p := range ranked[1:] {
		if evaluator.Compare(results[p.ID], best) != 0 {
			break
		}
		winners = append(winners, p)
	}
	return winners
}
