// Package evaluator classifies the best five-card poker hand available
// from up to seven cards and defines a total order over hands.
package evaluator

import (
	"sort"

	"github.com/jeighmorg/poker-game/internal/deck"
)

// Category is the 10-level hand classification, ordered weakest first.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Value returns the numeric rank value (1-10) used for comparison.
func (c Category) Value() int {
	return int(c)
}

// String returns a human-readable category label
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult describes an evaluated hand. Kickers hold the tie-break
// rank values in comparison order for the category.
type HandResult struct {
	Category Category
	Kickers  []int
	Cards    []deck.Card
	Name     string
}

// Evaluate returns the best five-card hand available from the hole and
// community cards. With fewer than five cards total it returns a
// provisional high-card result built from whatever cards exist; that
// result is only meaningful for heuristics, never for showdown.
func Evaluate(holeCards, communityCards []deck.Card) HandResult {
	all := make([]deck.Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)

	if len(all) < 5 {
		sorted := sortedByRankDesc(all)
		kickers := make([]int, len(sorted))
		for i, c := range sorted {
			kickers[i] = c.Value()
		}
		return HandResult{
			Category: HighCard,
			Kickers:  kickers,
			Cards:    sorted,
			Name:     HighCard.String(),
		}
	}

	var best HandResult
	first := true
	forEachFive(all, func(combo []deck.Card) {
		result := evaluateFive(combo)
		if first || Compare(result, best) > 0 {
			best = result
			first = false
		}
	})
	return best
}

// Compare returns a positive value if a is stronger, negative if b is
// stronger, and zero on an exact tie. The order is total: category rank
// first, then the kicker sequence lexicographically.
func Compare(a, b HandResult) int {
	if a.Category != b.Category {
		return a.Category.Value() - b.Category.Value()
	}
	n := len(a.Kickers)
	if len(b.Kickers) < n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		if a.Kickers[i] != b.Kickers[i] {
			return a.Kickers[i] - b.Kickers[i]
		}
	}
	return 0
}

// forEachFive visits every 5-card subset of cards.
func forEachFive(cards []deck.Card, fn func([]deck.Card)) {
	n := len(cards)
	combo := make([]deck.Card, 5)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			fn(combo)
			return
		}
		for i := start; i <= n-(5-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

func evaluateFive(cards []deck.Card) HandResult {
	sorted := sortedByRankDesc(cards)
	ranks := make([]int, 5)
	for i, c := range sorted {
		ranks[i] = c.Value()
	}

	isFlush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			isFlush = false
			break
		}
	}

	isStraight, straightHigh := checkStraight(ranks)

	counts := make(map[int]int, 5)
	for _, r := range ranks {
		counts[r]++
	}

	var category Category
	var kickers []int

	switch {
	case isStraight && isFlush:
		if straightHigh == int(deck.Ace) {
			category = RoyalFlush
		} else {
			category = StraightFlush
		}
		kickers = []int{straightHigh}

	case hasCount(counts, 4):
		category = FourOfAKind
		quad := rankWithCount(counts, 4)
		kickers = append([]int{quad}, ranksWithCountDesc(counts, 1)...)

	case hasCount(counts, 3) && hasCount(counts, 2):
		category = FullHouse
		kickers = []int{rankWithCount(counts, 3), rankWithCount(counts, 2)}

	case isFlush:
		category = Flush
		kickers = ranks

	case isStraight:
		category = Straight
		kickers = []int{straightHigh}

	case hasCount(counts, 3):
		category = ThreeOfAKind
		trip := rankWithCount(counts, 3)
		kickers = append([]int{trip}, ranksWithCountDesc(counts, 1)...)

	case len(ranksWithCountDesc(counts, 2)) == 2:
		category = TwoPair
		pairs := ranksWithCountDesc(counts, 2)
		kickers = append(pairs, ranksWithCountDesc(counts, 1)...)

	case hasCount(counts, 2):
		category = Pair
		pair := rankWithCount(counts, 2)
		kickers = append([]int{pair}, ranksWithCountDesc(counts, 1)...)

	default:
		category = HighCard
		kickers = ranks
	}

	return HandResult{
		Category: category,
		Kickers:  kickers,
		Cards:    sorted,
		Name:     category.String(),
	}
}

// checkStraight recognises five distinct consecutive ranks, including
// the wheel (A-2-3-4-5), which ranks as a 5-high straight.
func checkStraight(ranks []int) (bool, int) {
	distinct := make(map[int]bool, 5)
	for _, r := range ranks {
		distinct[r] = true
	}
	if len(distinct) != 5 {
		return false, 0
	}
	if ranks[0]-ranks[4] == 4 {
		return true, ranks[0]
	}
	if ranks[0] == int(deck.Ace) && ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2 {
		return true, 5
	}
	return false, 0
}

func hasCount(counts map[int]int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

func rankWithCount(counts map[int]int, n int) int {
	best := 0
	for r, c := range counts {
		if c == n && r > best {
			best = r
		}
	}
	return best
}

func ranksWithCountDesc(counts map[int]int, n int) []int {
	var ranks []int
	for r, c := range counts {
		if c == n {
			ranks = append(ranks, r)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

func sortedByRankDesc(cards []deck.Card) []deck.Card {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})
	return sorted
}
