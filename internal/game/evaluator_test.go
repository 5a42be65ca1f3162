package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkrall/holdem/internal/deck"
)

func cards(specs ...string) []deck.Card {
	out := make([]deck.Card, len(specs))
	for i, s := range specs {
		out[i] = deck.MustParseCard(s)
	}
	return out
}

func evaluate(t *testing.T, specs ...string) EvaluatedHand {
	t.Helper()
	hand, err := EvaluateBest(cards(specs...))
	require.NoError(t, err)
	return hand
}

func TestEvaluateInsufficientCards(t *testing.T) {
	t.Parallel()

	_, err := EvaluateBest(cards("As", "Ks", "Qs", "Js"))
	require.ErrorIs(t, err, ErrInsufficientCards)
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cards     []string
		category  Category
		tiebreaks []int
	}{
		{"royal flush", []string{"As", "Ks", "Qs", "Js", "Ts"}, RoyalFlush, []int{14}},
		{"straight flush", []string{"9h", "8h", "7h", "6h", "5h"}, StraightFlush, []int{9}},
		{"steel wheel is five high", []string{"Ad", "2d", "3d", "4d", "5d"}, StraightFlush, []int{5}},
		{"four of a kind", []string{"7s", "7h", "7d", "7c", "Kd"}, FourOfAKind, []int{7, 13}},
		{"full house", []string{"Ts", "Th", "Td", "4c", "4d"}, FullHouse, []int{10, 4}},
		{"flush", []string{"Ac", "Jc", "9c", "6c", "3c"}, Flush, []int{14, 11, 9, 6, 3}},
		{"broadway straight", []string{"Ah", "Kd", "Qs", "Jc", "Th"}, Straight, []int{14}},
		{"wheel is five high", []string{"As", "2d", "3h", "4c", "5s"}, Straight, []int{5}},
		{"three of a kind", []string{"8s", "8h", "8d", "Kc", "2d"}, ThreeOfAKind, []int{8, 13, 2}},
		{"two pair", []string{"Js", "Jh", "4d", "4c", "9s"}, TwoPair, []int{11, 4, 9}},
		{"one pair", []string{"Qs", "Qh", "Ad", "7c", "3s"}, OnePair, []int{12, 14, 7, 3}},
		{"high card", []string{"Ks", "Jh", "8d", "5c", "2s"}, HighCard, []int{13, 11, 8, 5, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			hand := evaluate(t, tc.cards...)
			require.Equal(t, tc.category, hand.Category)
			require.Equal(t, tc.tiebreaks, hand.Tiebreaks)
			require.Len(t, hand.Cards, 5)
		})
	}
}

func TestEvaluateBestOfSeven(t *testing.T) {
	t.Parallel()

	// Two hearts in the hole plus three on board make the flush, not the two pair
	hand := evaluate(t, "Ah", "Kh", "Ac", "9h", "5h", "2h", "2c")
	require.Equal(t, Flush, hand.Category)
	require.Equal(t, []int{14, 13, 9, 5, 2}, hand.Tiebreaks)
}

func TestRoyalFlushRequiresKingSecond(t *testing.T) {
	t.Parallel()

	royal := evaluate(t, "As", "Ks", "Qs", "Js", "Ts", "2d", "3c")
	require.Equal(t, RoyalFlush, royal.Category)

	kingHigh := evaluate(t, "Ks", "Qs", "Js", "Ts", "9s", "2d", "3c")
	require.Equal(t, StraightFlush, kingHigh.Category)
	require.Equal(t, []int{13}, kingHigh.Tiebreaks)

	require.Positive(t, Compare(royal, kingHigh))
}

func TestWheelLosesToSixHighStraight(t *testing.T) {
	t.Parallel()

	wheel := evaluate(t, "As", "2d", "3h", "4c", "5s")
	sixHigh := evaluate(t, "6s", "5d", "4h", "3c", "2s")
	require.Positive(t, Compare(sixHigh, wheel))
}

func TestWheelBeatsPairOfKings(t *testing.T) {
	t.Parallel()

	board := []string{"3d", "4h", "5c", "9c", "Jh"}
	hero := evaluate(t, append([]string{"As", "2s"}, board...)...)
	villain := evaluate(t, append([]string{"Ks", "Kd"}, board...)...)

	require.Equal(t, Straight, hero.Category)
	require.Equal(t, []int{5}, hero.Tiebreaks)
	require.Equal(t, OnePair, villain.Category)
	require.Positive(t, Compare(hero, villain))
}

func TestCompareKickers(t *testing.T) {
	t.Parallel()

	aceKicker := evaluate(t, "Qs", "Qh", "Ad", "7c", "3s")
	kingKicker := evaluate(t, "Qd", "Qc", "Kd", "7h", "3d")
	require.Positive(t, Compare(aceKicker, kingKicker))
	require.Negative(t, Compare(kingKicker, aceKicker))

	tied := evaluate(t, "Qs", "Qh", "Ac", "7d", "3h")
	require.Zero(t, Compare(aceKicker, tied))
}

func TestCompareConsistentWithCategoryOrder(t *testing.T) {
	t.Parallel()

	ladder := []EvaluatedHand{
		evaluate(t, "Ks", "Jh", "8d", "5c", "2s"),
		evaluate(t, "Qs", "Qh", "Ad", "7c", "3s"),
		evaluate(t, "Js", "Jh", "4d", "4c", "9s"),
		evaluate(t, "8s", "8h", "8d", "Kc", "2d"),
		evaluate(t, "Ah", "Kd", "Qs", "Jc", "Th"),
		evaluate(t, "Ac", "Jc", "9c", "6c", "3c"),
		evaluate(t, "Ts", "Th", "Td", "4c", "4d"),
		evaluate(t, "7s", "7h", "7d", "7c", "Kd"),
		evaluate(t, "9h", "8h", "7h", "6h", "5h"),
		evaluate(t, "As", "Ks", "Qs", "Js", "Ts"),
	}

	for i := range ladder {
		for j := range ladder {
			cmp := Compare(ladder[i], ladder[j])
			switch {
			case i < j:
				require.Negative(t, cmp, "%d vs %d", i, j)
			case i > j:
				require.Positive(t, cmp, "%d vs %d", i, j)
			default:
				require.Zero(t, cmp)
			}
			// Antisymmetry
			require.Equal(t, sign(cmp), -sign(Compare(ladder[j], ladder[i])))
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
