package game

import (
	"errors"
	"sort"

	"github.com/mkrall/holdem/internal/deck"
)

// Category is the rank class of a five-card hand, ordered weakest to
// strongest.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
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

// EvaluatedHand is a classified five-card hand. Tiebreaks holds card values in
// descending order of importance; two hands of the same category compare by
// their tiebreak vectors lexicographically.
type EvaluatedHand struct {
	Category  Category
	Tiebreaks []int
	Cards     []deck.Card // the five cards chosen
}

// ErrInsufficientCards is returned when fewer than five cards are offered for
// evaluation. The engine never does this; hitting it means a caller bug.
var ErrInsufficientCards = errors.New("holdem: hand evaluation requires at least five cards")

// EvaluateBest returns the strongest five-card hand found among all five-card
// subsets of cards. With seven cards that is 21 subsets, so brute force is
// plenty fast for table play.
func EvaluateBest(cards []deck.Card) (EvaluatedHand, error) {
	if len(cards) < 5 {
		return EvaluatedHand{}, ErrInsufficientCards
	}

	var best EvaluatedHand
	have := false

	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand := evaluateFive([5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if !have || Compare(hand, best) > 0 {
							best = hand
							have = true
						}
					}
				}
			}
		}
	}

	return best, nil
}

// Compare returns a positive value if a beats b, negative if b beats a, and
// zero on an exact tie.
func Compare(a, b EvaluatedHand) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			return a.Tiebreaks[i] - b.Tiebreaks[i]
		}
	}
	return 0
}

// evaluateFive classifies exactly five cards.
func evaluateFive(five [5]deck.Card) EvaluatedHand {
	cards := five[:]
	sorted := make([]deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	values := make([]int, 5)
	for i, c := range sorted {
		values[i] = c.Rank
	}

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straightTop := straightTopValue(values)

	if flush && straightTop > 0 {
		if values[0] == deck.Ace && values[1] == deck.King {
			return EvaluatedHand{Category: RoyalFlush, Tiebreaks: []int{straightTop}, Cards: sorted}
		}
		return EvaluatedHand{Category: StraightFlush, Tiebreaks: []int{straightTop}, Cards: sorted}
	}

	// Value histogram: groups[n] holds the values appearing exactly n times,
	// highest first.
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	var groups [5][]int
	for _, v := range values {
		// record each value once, in descending order
		if counts[v] > 0 {
			groups[counts[v]] = append(groups[counts[v]], v)
			counts[v] = -counts[v]
		}
	}

	switch {
	case len(groups[4]) == 1:
		return EvaluatedHand{
			Category:  FourOfAKind,
			Tiebreaks: []int{groups[4][0], groups[1][0]},
			Cards:     sorted,
		}
	case len(groups[3]) == 1 && len(groups[2]) == 1:
		return EvaluatedHand{
			Category:  FullHouse,
			Tiebreaks: []int{groups[3][0], groups[2][0]},
			Cards:     sorted,
		}
	case flush:
		return EvaluatedHand{Category: Flush, Tiebreaks: values, Cards: sorted}
	case straightTop > 0:
		return EvaluatedHand{Category: Straight, Tiebreaks: []int{straightTop}, Cards: sorted}
	case len(groups[3]) == 1:
		return EvaluatedHand{
			Category:  ThreeOfAKind,
			Tiebreaks: append([]int{groups[3][0]}, groups[1]...),
			Cards:     sorted,
		}
	case len(groups[2]) == 2:
		return EvaluatedHand{
			Category:  TwoPair,
			Tiebreaks: []int{groups[2][0], groups[2][1], groups[1][0]},
			Cards:     sorted,
		}
	case len(groups[2]) == 1:
		return EvaluatedHand{
			Category:  OnePair,
			Tiebreaks: append([]int{groups[2][0]}, groups[1]...),
			Cards:     sorted,
		}
	default:
		return EvaluatedHand{Category: HighCard, Tiebreaks: values, Cards: sorted}
	}
}

// straightTopValue returns the high-card value of a straight formed by the
// descending-sorted values, 5 for the wheel, or 0 when there is no straight.
func straightTopValue(values []int) int {
	run := true
	for i := 0; i < 4; i++ {
		if values[i] != values[i+1]+1 {
			run = false
			break
		}
	}
	if run {
		return values[0]
	}

	// The wheel: A-5-4-3-2 plays as a five-high straight.
	wheel := [5]int{deck.Ace, 5, 4, 3, 2}
	for i, v := range values {
		if v != wheel[i] {
			return 0
		}
	}
	return 5
}
