package deck

import "github.com/mkrall/holdem/internal/rng"

// Size is the number of cards in a standard deck.
const Size = 52

// Deck is a shuffled sequence of cards with a read cursor. A deck is built
// per hand and never reshuffled, so a card can be dealt at most once.
type Deck struct {
	cards []Card
	next  int
}

// New creates a full 52-card deck shuffled with the provided generator.
func New(gen rng.Generator) *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	d.shuffle(gen)
	return d
}

// NewStacked creates a deck that deals the given cards in order. Test helper;
// the deck may hold fewer than 52 cards.
func NewStacked(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// shuffle is an in-place Fisher-Yates over the full deck.
func (d *Deck) shuffle(gen rng.Generator) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal returns the next card and advances the cursor. Dealing past the end of
// the deck is a programmer error: legal play uses at most 19 cards.
func (d *Deck) Deal() Card {
	if d.next >= len(d.cards) {
		panic("deck: exhausted")
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// DealN deals n cards, equivalent to n sequential Deal calls.
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Deal()
	}
	return cards
}

// Burn discards the next card.
func (d *Deck) Burn() {
	d.Deal()
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
