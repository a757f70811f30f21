package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeighmorg/poker-game/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hole     []deck.Card
		board    []deck.Card
		category Category
		kickers  []int
	}{
		{
			name: "royal flush",
			hole: []deck.Card{card(deck.Spades, deck.Ace), card(deck.Spades, deck.King)},
			board: []deck.Card{
				card(deck.Spades, deck.Queen), card(deck.Spades, deck.Jack),
				card(deck.Spades, deck.Ten), card(deck.Hearts, deck.Two), card(deck.Clubs, deck.Three),
			},
			category: RoyalFlush,
			kickers:  []int{14},
		},
		{
			name: "straight flush",
			hole: []deck.Card{card(deck.Hearts, deck.Nine), card(deck.Hearts, deck.Eight)},
			board: []deck.Card{
				card(deck.Hearts, deck.Seven), card(deck.Hearts, deck.Six),
				card(deck.Hearts, deck.Five), card(deck.Spades, deck.Ace), card(deck.Clubs, deck.Ace),
			},
			category: StraightFlush,
			kickers:  []int{9},
		},
		{
			name: "four of a kind with kicker",
			hole: []deck.Card{card(deck.Hearts, deck.Nine), card(deck.Diamonds, deck.Nine)},
			board: []deck.Card{
				card(deck.Clubs, deck.Nine), card(deck.Spades, deck.Nine),
				card(deck.Hearts, deck.King), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: FourOfAKind,
			kickers:  []int{9, 13},
		},
		{
			name: "full house picks highest trip",
			hole: []deck.Card{card(deck.Hearts, deck.King), card(deck.Diamonds, deck.King)},
			board: []deck.Card{
				card(deck.Clubs, deck.King), card(deck.Spades, deck.Four),
				card(deck.Hearts, deck.Four), card(deck.Clubs, deck.Nine), card(deck.Diamonds, deck.Two),
			},
			category: FullHouse,
			kickers:  []int{13, 4},
		},
		{
			name: "flush keeps all five ranks",
			hole: []deck.Card{card(deck.Clubs, deck.Ace), card(deck.Clubs, deck.Ten)},
			board: []deck.Card{
				card(deck.Clubs, deck.Seven), card(deck.Clubs, deck.Five),
				card(deck.Clubs, deck.Two), card(deck.Hearts, deck.King), card(deck.Spades, deck.King),
			},
			category: Flush,
			kickers:  []int{14, 10, 7, 5, 2},
		},
		{
			name: "broadway straight",
			hole: []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Diamonds, deck.King)},
			board: []deck.Card{
				card(deck.Clubs, deck.Queen), card(deck.Spades, deck.Jack),
				card(deck.Hearts, deck.Ten), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: Straight,
			kickers:  []int{14},
		},
		{
			name: "wheel straight scores five high",
			hole: []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Diamonds, deck.Two)},
			board: []deck.Card{
				card(deck.Clubs, deck.Three), card(deck.Spades, deck.Four),
				card(deck.Hearts, deck.Five), card(deck.Clubs, deck.Nine), card(deck.Diamonds, deck.King)},
			category: Straight,
			kickers:  []int{5},
		},
		{
			name: "three of a kind with two kickers",
			hole: []deck.Card{card(deck.Hearts, deck.Seven), card(deck.Diamonds, deck.Seven)},
			board: []deck.Card{
				card(deck.Clubs, deck.Seven), card(deck.Spades, deck.Ace),
				card(deck.Hearts, deck.Jack), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: ThreeOfAKind,
			kickers:  []int{7, 14, 11},
		},
		{
			name: "two pair with kicker",
			hole: []deck.Card{card(deck.Hearts, deck.Queen), card(deck.Diamonds, deck.Queen)},
			board: []deck.Card{
				card(deck.Clubs, deck.Eight), card(deck.Spades, deck.Eight),
				card(deck.Hearts, deck.Ace), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: TwoPair,
			kickers:  []int{12, 8, 14},
		},
		{
			name: "pair with three kickers",
			hole: []deck.Card{card(deck.Hearts, deck.Six), card(deck.Diamonds, deck.Six)},
			board: []deck.Card{
				card(deck.Clubs, deck.Ace), card(deck.Spades, deck.Jack),
				card(deck.Hearts, deck.Nine), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: Pair,
			kickers:  []int{6, 14, 11, 9},
		},
		{
			name: "high card keeps best five ranks",
			hole: []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Diamonds, deck.Jack)},
			board: []deck.Card{
				card(deck.Clubs, deck.Nine), card(deck.Spades, deck.Seven),
				card(deck.Hearts, deck.Five), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
			},
			category: HighCard,
			kickers:  []int{14, 11, 9, 7, 5},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Evaluate(tt.hole, tt.board)
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.kickers, result.Kickers)
			assert.Equal(t, tt.category.String(), result.Name)
		})
	}
}

func TestEvaluatePicksBestOfSeven(t *testing.T) {
	t.Parallel()

	// The board alone makes a pair of twos; the hole cards upgrade to a
	// nine-high straight flush.
	hole := []deck.Card{card(deck.Hearts, deck.Nine), card(deck.Hearts, deck.Eight)}
	board := []deck.Card{
		card(deck.Hearts, deck.Seven), card(deck.Hearts, deck.Six), card(deck.Hearts, deck.Five),
		card(deck.Clubs, deck.Two), card(deck.Diamonds, deck.Two),
	}

	result := Evaluate(hole, board)
	assert.Equal(t, StraightFlush, result.Category)
	assert.Equal(t, []int{9}, result.Kickers)
}

func TestEvaluateProvisionalBelowFiveCards(t *testing.T) {
	t.Parallel()

	hole := []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Diamonds, deck.King)}
	result := Evaluate(hole, nil)
	assert.Equal(t, HighCard, result.Category)
	assert.Equal(t, []int{14, 13}, result.Kickers)
}

func TestEvaluateOrderIndependent(t *testing.T) {
	t.Parallel()

	hole := []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Spades, deck.Ace)}
	board := []deck.Card{
		card(deck.Clubs, deck.Ace), card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.King), card(deck.Clubs, deck.Four), card(deck.Diamonds, deck.Two),
	}
	reversedBoard := []deck.Card{
		card(deck.Diamonds, deck.Two), card(deck.Clubs, deck.Four),
		card(deck.Hearts, deck.King), card(deck.Diamonds, deck.King), card(deck.Clubs, deck.Ace),
	}

	a := Evaluate(hole, board)
	b := Evaluate(hole, reversedBoard)
	assert.Equal(t, a.Category, b.Category)
	assert.Equal(t, a.Kickers, b.Kickers)
	assert.Equal(t, 0, Compare(a, b))
}

func TestCompareOrdering(t *testing.T) {
	t.Parallel()

	flush := HandResult{Category: Flush, Kickers: []int{14, 10, 7, 5, 2}}
	straight := HandResult{Category: Straight, Kickers: []int{14}}
	wheel := HandResult{Category: Straight, Kickers: []int{5}}
	sixHigh := HandResult{Category: Straight, Kickers: []int{6}}

	assert.Positive(t, Compare(flush, straight), "higher category wins")
	assert.Negative(t, Compare(straight, flush))
	assert.Positive(t, Compare(sixHigh, wheel), "six-high straight beats the wheel")
	assert.Zero(t, Compare(straight, straight))
}

func TestCompareKickersBreakTies(t *testing.T) {
	t.Parallel()

	// Both hold a pair of kings; the second kicker decides.
	a := HandResult{Category: Pair, Kickers: []int{13, 14, 9, 5}}
	b := HandResult{Category: Pair, Kickers: []int{13, 14, 8, 7}}

	assert.Positive(t, Compare(a, b))
	assert.Negative(t, Compare(b, a))
	assert.Equal(t, -Compare(b, a), Compare(a, b), "comparison is antisymmetric")
}

func TestSharedBoardTies(t *testing.T) {
	t.Parallel()

	// The board plays for both: neither hole card improves a broadway
	// straight on the board.
	board := []deck.Card{
		card(deck.Clubs, deck.Ace), card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen),
		card(deck.Diamonds, deck.Jack), card(deck.Clubs, deck.Ten),
	}
	a := Evaluate([]deck.Card{card(deck.Hearts, deck.Two), card(deck.Diamonds, deck.Three)}, board)
	b := Evaluate([]deck.Card{card(deck.Spades, deck.Four), card(deck.Clubs, deck.Five)}, board)

	assert.Equal(t, 0, Compare(a, b))
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	hole := []deck.Card{card(deck.Hearts, deck.Two), card(deck.Diamonds, deck.Nine)}
	board := []deck.Card{
		card(deck.Clubs, deck.Ace), card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen),
		card(deck.Diamonds, deck.Jack), card(deck.Clubs, deck.Ten),
	}
	holeCopy := append([]deck.Card(nil), hole...)
	boardCopy := append([]deck.Card(nil), board...)

	Evaluate(hole, board)
	require.Equal(t, holeCopy, hole)
	require.Equal(t, boardCopy, board)
}
