package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func actionSet(actions []ValidAction) map[Action]ValidAction {
	set := map[Action]ValidAction{}
	for _, va := range actions {
		set[va.Action] = va
	}
	return set
}

func TestValidActionsNothingToCall(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2)
	p := &Player{Chips: 100, InHand: true}

	set := actionSet(br.ValidActions(p))
	require.Contains(t, set, Fold)
	require.Contains(t, set, Check)
	require.NotContains(t, set, Call)

	raise := set[Raise]
	require.Equal(t, 2, raise.Min, "opening bet must be at least the big blind")
	require.Equal(t, 100, raise.Max)
}

func TestValidActionsFacingBet(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2)
	br.CurrentBet = 10
	br.MinRaise = 8
	p := &Player{Chips: 100, Bet: 2, InHand: true}

	set := actionSet(br.ValidActions(p))
	require.NotContains(t, set, Check)

	call := set[Call]
	require.Equal(t, 8, call.Min)
	require.Equal(t, 8, call.Max)

	raise := set[Raise]
	require.Equal(t, 16, raise.Min, "raise to 18 means 16 more from a bet of 2")
	require.Equal(t, 100, raise.Max)
}

func TestValidActionsShortStackCannotRaise(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2)
	br.CurrentBet = 50

	// Exactly covering the call leaves nothing to raise with
	p := &Player{Chips: 50, Bet: 0, InHand: true}
	set := actionSet(br.ValidActions(p))
	require.NotContains(t, set, Raise)
	require.Equal(t, 50, set[Call].Min)

	// A short stack calls for less
	p = &Player{Chips: 30, Bet: 0, InHand: true}
	set = actionSet(br.ValidActions(p))
	require.NotContains(t, set, Raise)
	require.Equal(t, 30, set[Call].Min)
}

func TestValidActionsRaiseCappedByStack(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2)
	br.CurrentBet = 10
	br.MinRaise = 8

	// Enough to call with change, but short of a full raise: the all-in
	// raise is offered with min == max == stack
	p := &Player{Chips: 12, Bet: 0, InHand: true}
	set := actionSet(br.ValidActions(p))
	raise := set[Raise]
	require.Equal(t, 12, raise.Min)
	require.Equal(t, 12, raise.Max)
}

func TestBettingRoundReset(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2)
	br.CurrentBet = 40
	br.MinRaise = 20
	br.LastRaiseAmount = 20

	br.Reset()
	require.Equal(t, 0, br.CurrentBet)
	require.Equal(t, 2, br.MinRaise)
	require.Equal(t, 0, br.LastRaiseAmount)
}

func TestStreetProgressionNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "preflop", Preflop.String())
	require.Equal(t, "flop", Flop.String())
	require.Equal(t, "turn", Turn.String())
	require.Equal(t, "river", River.String())
	require.Equal(t, "showdown", Showdown.String())
	require.Equal(t, "complete", Complete.String())
}
