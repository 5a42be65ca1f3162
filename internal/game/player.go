package game

import "github.com/mkrall/holdem/internal/deck"

// Player is a seated player. Owned by the engine; the outside world refers to
// players by ID and sees them through PlayerView snapshots.
type Player struct {
	ID         string
	Name       string
	Seat       int
	Chips      int
	HoleCards  []deck.Card
	Bet        int // chips committed this street
	TotalBet   int // chips committed this hand
	Folded     bool
	AllIn      bool
	SittingOut bool
	Connected  bool
	InHand     bool // dealt into the current hand
	LastAction *Action

	removed bool // seat is released at hand end
}

// Live reports whether the player was dealt in and has not folded.
func (p *Player) Live() bool {
	return p.InHand && !p.Folded
}

// CanAct reports whether the player can still take betting actions.
func (p *Player) CanAct() bool {
	return p.InHand && !p.Folded && !p.AllIn
}

// commit moves up to amount chips from the stack into the current bet,
// returning the chips actually committed. Going broke marks the player all-in.
func (p *Player) commit(amount int) int {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.TotalBet > 0 {
		p.AllIn = true
	}
	return amount
}

// PlayerView is the public per-player snapshot carried on events. Hole cards
// are never part of a view.
type PlayerView struct {
	ID         string
	Name       string
	Seat       int
	Chips      int
	Bet        int
	Folded     bool
	AllIn      bool
	LastAction *Action
}

// View returns a public snapshot of the player.
func (p *Player) View() PlayerView {
	v := PlayerView{
		ID:     p.ID,
		Name:   p.Name,
		Seat:   p.Seat,
		Chips:  p.Chips,
		Bet:    p.Bet,
		Folded: p.Folded,
		AllIn:  p.AllIn,
	}
	if p.LastAction != nil {
		la := *p.LastAction
		v.LastAction = &la
	}
	return v
}
