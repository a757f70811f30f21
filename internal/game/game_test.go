package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeighmorg/poker-game/internal/randutil"
)

func testSettings() Settings {
	return Settings{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
		MaxPlayers:    6,
		TurnTimeLimit: 30,
	}
}

// newTestGame seats players in consecutive seats with 1000 chips each.
func newTestGame(seed int64, names ...string) *GameState {
	g := NewGame(testSettings(), randutil.New(seed))
	for i, name := range names {
		g.AddPlayer(name, 1000, i, false)
	}
	return g
}

// totalChips sums every chip in the system: stacks, round bets and the
// collected pot. It must stay constant through a hand.
func totalChips(g *GameState) int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Chips + p.Bet
	}
	return total
}

func TestAddPlayerKeepsSeatOrder(t *testing.T) {
	t.Parallel()

	g := NewGame(testSettings(), randutil.New(1))
	g.AddPlayer("Carol", 1000, 4, false)
	g.AddPlayer("Alice", 1000, 0, false)
	g.AddPlayer("Bob", 1000, 2, false)

	require.Len(t, g.Players, 3)
	assert.Equal(t, []int{0, 2, 4}, []int{g.Players[0].SeatIndex, g.Players[1].SeatIndex, g.Players[2].SeatIndex})
	assert.Equal(t, "Alice", g.Players[0].Name)
	assert.Equal(t, "Bob", g.Players[1].Name)
	assert.Equal(t, "Carol", g.Players[2].Name)
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()

	g := newTestGame(1, "Alice", "Bob")
	bob := g.Players[1]

	g.RemovePlayer(bob.ID)
	require.Len(t, g.Players, 1)
	assert.Equal(t, "Alice", g.Players[0].Name)

	g.RemovePlayer("no-such-id")
	assert.Len(t, g.Players, 1)
}

func TestFindEmptySeat(t *testing.T) {
	t.Parallel()

	g := NewGame(testSettings(), randutil.New(1))
	assert.Equal(t, 0, g.FindEmptySeat(6))

	g.AddPlayer("Alice", 1000, 0, false)
	g.AddPlayer("Carol", 1000, 2, false)
	assert.Equal(t, 1, g.FindEmptySeat(6), "gaps are filled first")

	g.AddPlayer("Bob", 1000, 1, false)
	assert.Equal(t, 3, g.FindEmptySeat(6))
	assert.Equal(t, -1, g.FindEmptySeat(3), "table full")
}

func TestAddAIPlayerNamesAndSeats(t *testing.T) {
	t.Parallel()

	g := NewGame(testSettings(), randutil.New(1))
	settings := testSettings()

	first := g.AddAIPlayer(settings)
	require.NotNil(t, first)
	assert.Equal(t, "Bot Alice", first.Name)
	assert.True(t, first.IsAI)
	assert.Equal(t, 0, first.SeatIndex)
	assert.Equal(t, settings.StartingChips, first.Chips)

	second := g.AddAIPlayer(settings)
	require.NotNil(t, second)
	assert.Equal(t, "Bot Bob", second.Name)
	assert.Equal(t, 1, second.SeatIndex)

	// Fill the rest of the table.
	for g.AddAIPlayer(settings) != nil {
	}
	assert.Len(t, g.Players, 6)
	assert.Nil(t, g.AddAIPlayer(settings))
}

func TestCanStartGame(t *testing.T) {
	t.Parallel()

	g := NewGame(testSettings(), randutil.New(1))
	assert.False(t, g.CanStartGame(), "empty table")

	g.AddPlayer("Alice", 1000, 0, false)
	assert.False(t, g.CanStartGame(), "one player is not enough")

	bob := g.AddPlayer("Bob", 0, 1, false)
	assert.False(t, g.CanStartGame(), "busted players don't count")

	bob.Chips = 1000
	assert.True(t, g.CanStartGame())

	g.Phase = PhasePreflop
	assert.False(t, g.CanStartGame(), "only from the waiting phase")
}

func TestTotalPotIncludesRoundBets(t *testing.T) {
	t.Parallel()

	g := newTestGame(1, "Alice", "Bob")
	g.Pot = 100
	g.Players[0].Bet = 30
	g.Players[1].Bet = 20
	assert.Equal(t, 150, g.TotalPot())
}

func TestNextActiveIndexSkipsFoldedAndAllIn(t *testing.T) {
	t.Parallel()

	g := newTestGame(1, "A", "B", "C", "D")
	g.Players[0].Status = StatusActive
	g.Players[1].Status = StatusFolded
	g.Players[2].Status = StatusActive
	g.Players[3].Status = StatusAllIn

	assert.Equal(t, 2, g.nextActiveIndex(0), "folded seat is skipped")
	assert.Equal(t, 0, g.nextActiveIndex(2), "all-in seat is skipped, search wraps")

	g.Players[0].Status = StatusFolded
	g.Players[2].Status = StatusFolded
	assert.Equal(t, -1, g.nextActiveIndex(0), "nobody left to act")
}

func TestGetCurrentPlayerOutsideBetting(t *testing.T) {
	t.Parallel()

	g := newTestGame(1, "Alice", "Bob")
	assert.Nil(t, g.GetCurrentPlayer(), "no turn while waiting")

	g.Phase = PhaseShowdown
	assert.Nil(t, g.GetCurrentPlayer(), "no turn at showdown")

	g.Phase = PhaseFlop
	g.CurrentPlayerIndex = -1
	assert.Nil(t, g.GetCurrentPlayer())

	g.CurrentPlayerIndex = 1
	require.NotNil(t, g.GetCurrentPlayer())
	assert.Equal(t, "Bob", g.GetCurrentPlayer().Name)
}
