package game

import (
	"time"

	"github.com/mkrall/holdem/internal/deck"
)

// EventType tags each event in the engine's output stream.
type EventType string

const (
	EventTypeHandStart   EventType = "hand_start"
	EventTypeHoleCards   EventType = "hole_cards"
	EventTypeCommunity   EventType = "community"
	EventTypeActionOn    EventType = "action_on"
	EventTypePlayerActed EventType = "player_acted"
	EventTypePotUpdate   EventType = "pot_update"
	EventTypeShowdown    EventType = "showdown"
	EventTypeHandEnd     EventType = "hand_end"
)

// Event is the tagged union emitted to the operator's sink. Events carry
// values only, never references into engine state, so consumers may retain
// them.
type Event interface {
	EventType() EventType
}

// Sink receives every engine event synchronously. The sink must not call back
// into the engine; queue and act from your own loop instead.
type Sink func(Event)

// HandStartEvent opens a hand with the public roster after blinds.
type HandStartEvent struct {
	HandID     string
	HandNumber int
	DealerSeat int
	Players    []PlayerView
}

func (HandStartEvent) EventType() EventType { return EventTypeHandStart }

// HoleCardsEvent carries one player's hole cards. The operator must deliver
// it only to that player.
type HoleCardsEvent struct {
	PlayerID string
	Cards    []deck.Card
}

func (HoleCardsEvent) EventType() EventType { return EventTypeHoleCards }

// CommunityEvent carries the cumulative board at a street boundary.
type CommunityEvent struct {
	Street Street
	Cards  []deck.Card
}

func (CommunityEvent) EventType() EventType { return EventTypeCommunity }

// ActionOnEvent announces whose turn it is and what they may do.
type ActionOnEvent struct {
	PlayerID     string
	ValidActions []ValidAction
	Pot          int
	CurrentBet   int
	Deadline     time.Time
}

func (ActionOnEvent) EventType() EventType { return EventTypeActionOn }

// PlayerActedEvent records an accepted action. Amount is the player's new bet
// for the street; Chips is their remaining stack.
type PlayerActedEvent struct {
	PlayerID string
	Action   Action
	Amount   int
	Pot      int
	Chips    int
}

func (PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }

// PotUpdateEvent is emitted at each street boundary once bets are swept.
type PotUpdateEvent struct {
	Pot      int
	SidePots []SidePot
}

func (PotUpdateEvent) EventType() EventType { return EventTypePotUpdate }

// ShowdownResult is one shown player's outcome. Cards is empty and Hand nil
// when a hand ends without a showdown.
type ShowdownResult struct {
	PlayerID  string
	Cards     []deck.Card
	Hand      *EvaluatedHand
	WinAmount int
}

// ShowdownEvent reports every shown player and what they won.
type ShowdownEvent struct {
	Results []ShowdownResult
}

func (ShowdownEvent) EventType() EventType { return EventTypeShowdown }

// HandEndEvent closes a hand with the final public roster.
type HandEndEvent struct {
	Players []PlayerView
}

func (HandEndEvent) EventType() EventType { return EventTypeHandEnd }
