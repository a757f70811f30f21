package deck

import (
	rand "math/rand/v2"
)

// New returns the full 52-card set in canonical order, one card per
// (suit, rank) pair.
func New() []Card {
	cards := make([]Card, 0, 52)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle returns a uniformly random permutation of cards using
// Fisher-Yates over a copy. The input slice is not mutated.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Deck is an ordered sequence of cards consumed from the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a shuffled 52-card deck drawing randomness from rng.
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{cards: Shuffle(New(), rng), rng: rng}
}

// Reset restores the deck to a freshly shuffled 52 cards.
func (d *Deck) Reset() {
	d.cards = Shuffle(New(), d.rng)
}

// Draw removes and returns the last card. ok is false once the deck is
// exhausted.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DrawN draws up to n cards.
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Burn draws and discards one card.
func (d *Deck) Burn() {
	d.Draw()
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
