package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mkrall/holdem/internal/deck"
	"github.com/mkrall/holdem/internal/rng"
)

// Engine conducts Texas Hold'em hands for one table. It is single-threaded:
// every public operation runs to completion, emitting events into the sink as
// it goes, and nothing here is safe for concurrent use. Serialise calls
// through one goroutine or mutex.
type Engine struct {
	cfg     Config
	logger  *log.Logger
	clock   quartz.Clock
	gen     rng.Generator
	newDeck func() *deck.Deck
	sink    Sink

	seats      [MaxSeats]*Player
	dealerSeat int
	handNumber int
	handID     string

	handInProgress bool
	street         Street
	board          []deck.Card
	deck           *deck.Deck
	betting        *BettingRound
	activeSeat     int
	deadline       time.Time

	emitting bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithPrefix("engine") }
}

// WithClock substitutes the wall clock, for deterministic timeout tests.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithGenerator substitutes the shuffle randomness source.
func WithGenerator(gen rng.Generator) Option {
	return func(e *Engine) { e.gen = gen }
}

// WithDeckFactory substitutes deck construction entirely, letting tests stack
// exact cards.
func WithDeckFactory(factory func() *deck.Deck) Option {
	return func(e *Engine) { e.newDeck = factory }
}

// New creates an engine for one table. The sink receives every event
// synchronously and must not call back into the engine.
func New(cfg Config, sink Sink, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		sink:       sink,
		logger:     log.New(io.Discard),
		clock:      quartz.NewReal(),
		gen:        rng.Crypto{},
		dealerSeat: -1,
		activeSeat: -1,
	}
	e.newDeck = func() *deck.Deck { return deck.New(e.gen) }
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddPlayer seats a new player with the table buy-in. During a hand the
// player is seated but only dealt in from the next hand.
func (e *Engine) AddPlayer(id, name string, seat int) error {
	e.guard()

	if seat < 0 || seat >= MaxSeats {
		return ErrInvalidSeat
	}
	if e.playerByID(id) != nil {
		return ErrDuplicateID
	}
	if e.seatedCount() >= MaxSeats {
		return ErrRosterFull
	}
	if e.seats[seat] != nil {
		return ErrSeatTaken
	}

	e.seats[seat] = &Player{
		ID:        id,
		Name:      name,
		Seat:      seat,
		Chips:     e.cfg.BuyIn,
		Connected: true,
	}
	e.logger.Info("player seated", "player", name, "seat", seat, "chips", e.cfg.BuyIn)
	return nil
}

// RemovePlayer takes a player off the table. Between hands the seat empties
// immediately; during a hand the player is folded, marked disconnected, and
// the seat is released when the hand ends.
func (e *Engine) RemovePlayer(id string) error {
	e.guard()

	p := e.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}

	if !e.handInProgress || !p.InHand {
		e.seats[p.Seat] = nil
		e.logger.Info("player removed", "player", p.Name, "seat", p.Seat)
		return nil
	}

	e.logger.Info("player removed mid-hand, folding", "player", p.Name, "seat", p.Seat)
	p.Connected = false
	p.removed = true

	wasActive := e.activeSeat == p.Seat
	if !p.Folded {
		e.applyFold(p)
	}
	if wasActive {
		e.deadline = time.Time{}
		e.advanceAfterAction()
	} else if e.handInProgress && e.liveCount() == 1 {
		e.awardFoldWin()
	}
	return nil
}

// SetConnected updates a player's connectivity flag. A disconnected player is
// not dealt into the next hand; the current hand keeps running (the action
// timer will fold them if it is their turn).
func (e *Engine) SetConnected(id string, connected bool) error {
	e.guard()

	p := e.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}
	p.Connected = connected
	e.logger.Info("connectivity changed", "player", p.Name, "connected", connected)
	return nil
}

// SetSittingOut marks a player as sitting out; they stay seated but are not
// dealt in until they sit back in.
func (e *Engine) SetSittingOut(id string, sittingOut bool) error {
	e.guard()

	p := e.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}
	p.SittingOut = sittingOut
	return nil
}

// CanStartHand reports whether a new hand can begin: no hand in progress and
// at least two connected players with chips who are not sitting out.
func (e *Engine) CanStartHand() bool {
	return !e.handInProgress && e.eligibleCount() >= 2
}

// StartHand begins a new hand: purges busted and disconnected players,
// advances the button, posts blinds, deals, and puts the first player on
// action.
func (e *Engine) StartHand() error {
	e.guard()

	if e.handInProgress {
		return ErrHandInProgress
	}
	if e.eligibleCount() < 2 {
		return ErrCannotStart
	}

	for i, p := range e.seats {
		if p != nil && (p.removed || !p.Connected || p.Chips == 0) {
			e.logger.Info("purging player", "player", p.Name, "seat", p.Seat, "chips", p.Chips)
			e.seats[i] = nil
		}
	}

	for _, p := range e.seats {
		if p == nil {
			continue
		}
		p.HoleCards = nil
		p.Bet = 0
		p.TotalBet = 0
		p.Folded = false
		p.AllIn = false
		p.LastAction = nil
		p.InHand = p.Connected && p.Chips > 0 && !p.SittingOut
	}

	if e.dealerSeat < 0 {
		e.dealerSeat = e.nextInHandSeat(0)
	} else {
		e.dealerSeat = e.nextInHandSeat(e.dealerSeat + 1)
	}

	e.handNumber++
	e.handID = uuid.NewString()
	e.handInProgress = true
	e.street = Preflop
	e.board = nil
	e.deck = e.newDeck()
	e.betting = NewBettingRound(e.cfg.BigBlind)

	inHand := e.inHandCount()
	var sbSeat int
	if inHand == 2 {
		// Heads-up: the button posts the small blind
		sbSeat = e.dealerSeat
	} else {
		sbSeat = e.nextInHandSeat(e.dealerSeat + 1)
	}
	bbSeat := e.nextInHandSeat(sbSeat + 1)

	e.seats[sbSeat].commit(e.cfg.SmallBlind)
	e.seats[bbSeat].commit(e.cfg.BigBlind)
	e.betting.CurrentBet = e.cfg.BigBlind

	e.logger.Info("hand started",
		"hand", e.handNumber,
		"hand_id", e.handID,
		"dealer", e.dealerSeat,
		"players", inHand)

	e.emit(HandStartEvent{
		HandID:     e.handID,
		HandNumber: e.handNumber,
		DealerSeat: e.dealerSeat,
		Players:    e.views(),
	})

	seat := e.nextInHandSeat(e.dealerSeat + 1)
	for i := 0; i < inHand; i++ {
		p := e.seats[seat]
		p.HoleCards = e.deck.DealN(2)
		e.emit(HoleCardsEvent{PlayerID: p.ID, Cards: copyCards(p.HoleCards)})
		seat = e.nextInHandSeat(seat + 1)
	}

	if inHand == 2 {
		e.activeSeat = e.findNextActor(e.dealerSeat)
	} else {
		e.activeSeat = e.findNextActor(bbSeat + 1)
	}
	if e.activeSeat < 0 {
		// Blinds put everyone all-in already
		e.runOutBoard()
		e.showdown()
		return nil
	}
	e.emitActionOn()
	return nil
}

// HandleAction applies an action from the player on action. Amount is the
// number of additional chips to commit and only matters for Raise; AllIn is
// shorthand for raising the whole stack.
func (e *Engine) HandleAction(id string, action Action, amount int) error {
	e.guard()

	if !e.handInProgress || e.activeSeat < 0 {
		return ErrNoHand
	}
	p := e.seats[e.activeSeat]
	if p == nil || p.ID != id {
		return ErrNotActivePlayer
	}

	switch action {
	case Fold:
		// Always legal for the player on action

	case Check:
		if e.betting.CurrentBet != p.Bet {
			return fmt.Errorf("%w: cannot check, %d to call", ErrIllegalAction, e.betting.CurrentBet-p.Bet)
		}

	case Call:
		toCall := e.betting.CurrentBet - p.Bet
		if toCall <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
		p.commit(toCall)

	case Raise, AllIn:
		add := amount
		if action == AllIn {
			add = p.Chips
		}
		if add <= 0 || add > p.Chips {
			return fmt.Errorf("%w: raise of %d with stack of %d", ErrIllegalAction, add, p.Chips)
		}
		newBet := p.Bet + add
		raiseOver := newBet - e.betting.CurrentBet
		if add != p.Chips && raiseOver < e.betting.MinRaise {
			return fmt.Errorf("%w: raise to %d below minimum %d",
				ErrIllegalAction, newBet, e.betting.CurrentBet+e.betting.MinRaise)
		}
		p.commit(add)
		if newBet > e.betting.CurrentBet {
			// A short all-in raises the bet but leaves the minimum raise where
			// the last full raise left it. Players who already acted may still
			// re-raise when the action returns to them.
			if raiseOver >= e.betting.MinRaise {
				e.betting.MinRaise = raiseOver
				e.betting.LastRaiseAmount = raiseOver
			}
			e.betting.CurrentBet = newBet
		}

	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}

	act := action
	p.LastAction = &act
	if action == Fold {
		p.Folded = true
	}
	e.deadline = time.Time{}

	e.logger.Debug("action accepted",
		"player", p.Name, "action", action.String(), "bet", p.Bet, "chips", p.Chips)

	e.emit(PlayerActedEvent{
		PlayerID: p.ID,
		Action:   action,
		Amount:   p.Bet,
		Pot:      e.pot(),
		Chips:    p.Chips,
	})

	e.advanceAfterAction()
	return nil
}

// TickTimeout folds the player on action if the deadline has passed. The
// operator's scheduler calls this; it reports whether a fold fired.
func (e *Engine) TickTimeout(now time.Time) bool {
	e.guard()

	if !e.handInProgress || e.activeSeat < 0 || e.deadline.IsZero() || now.Before(e.deadline) {
		return false
	}

	p := e.seats[e.activeSeat]
	e.logger.Info("action timeout, auto-folding", "player", p.Name, "seat", p.Seat)
	e.deadline = time.Time{}
	e.applyFold(p)
	e.advanceAfterAction()
	return true
}

// ActivePlayer returns the id of the player on action, if any.
func (e *Engine) ActivePlayer() (string, bool) {
	if !e.handInProgress || e.activeSeat < 0 {
		return "", false
	}
	return e.seats[e.activeSeat].ID, true
}

// ValidActions enumerates the legal actions for the player on action.
func (e *Engine) ValidActions() []ValidAction {
	if !e.handInProgress || e.activeSeat < 0 {
		return nil
	}
	return e.betting.ValidActions(e.seats[e.activeSeat])
}

// Players returns the public roster in seat order.
func (e *Engine) Players() []PlayerView {
	return e.views()
}

// Board returns the community cards dealt so far.
func (e *Engine) Board() []deck.Card {
	return copyCards(e.board)
}

// Pot returns the chips contributed to the current hand so far.
func (e *Engine) Pot() int {
	return e.pot()
}

// CurrentStreet returns the hand's current street.
func (e *Engine) CurrentStreet() Street {
	return e.street
}

// HandInProgress reports whether a hand is being played.
func (e *Engine) HandInProgress() bool {
	return e.handInProgress
}

// HandNumber returns the sequence number of the current (or last) hand.
func (e *Engine) HandNumber() int {
	return e.handNumber
}

// DealerSeat returns the current button position, -1 before the first hand.
func (e *Engine) DealerSeat() int {
	return e.dealerSeat
}

// Destroy abandons any hand in progress and detaches the sink.
func (e *Engine) Destroy() {
	e.guard()

	e.handInProgress = false
	e.activeSeat = -1
	e.deadline = time.Time{}
	e.sink = nil
	e.logger.Info("engine destroyed")
}

// --- hand flow ---

// applyFold folds a player out of turn or on action and emits the event.
func (e *Engine) applyFold(p *Player) {
	p.Folded = true
	act := Fold
	p.LastAction = &act
	e.emit(PlayerActedEvent{
		PlayerID: p.ID,
		Action:   Fold,
		Amount:   p.Bet,
		Pot:      e.pot(),
		Chips:    p.Chips,
	})
}

// advanceAfterAction moves the action to the next player, or ends the round
// or the hand when no one is left to act.
func (e *Engine) advanceAfterAction() {
	if e.liveCount() == 1 {
		e.awardFoldWin()
		return
	}

	next := e.findNextActor(e.activeSeat + 1)
	if next < 0 {
		e.endRound()
		return
	}
	e.activeSeat = next
	e.emitActionOn()
}

// findNextActor scans seats from the given position for the next player who
// still owes action this street: anyone short of the current bet, or anyone
// who has not acted yet (which preflop gives the big blind their option).
func (e *Engine) findNextActor(from int) int {
	from = ((from % MaxSeats) + MaxSeats) % MaxSeats
	for i := 0; i < MaxSeats; i++ {
		seat := (from + i) % MaxSeats
		p := e.seats[seat]
		if p == nil || !p.CanAct() {
			continue
		}
		if p.Bet < e.betting.CurrentBet || p.LastAction == nil {
			return seat
		}
	}
	return -1
}

// endRound sweeps bets, reports the pot, and either deals the next street or
// goes to showdown. When at most one player can still act, the rest of the
// board is dealt without further betting.
func (e *Engine) endRound() {
	for _, p := range e.seats {
		if p != nil && p.InHand {
			p.Bet = 0
			p.LastAction = nil
		}
	}
	e.betting.Reset()
	e.activeSeat = -1

	e.emit(PotUpdateEvent{Pot: e.pot(), SidePots: BuildPots(e.inHandPlayers())})

	if e.street == River {
		e.showdown()
		return
	}
	if e.canActCount() <= 1 {
		e.runOutBoard()
		e.showdown()
		return
	}

	e.dealNextStreet()

	e.activeSeat = e.findNextActor(e.dealerSeat + 1)
	if e.activeSeat < 0 {
		e.runOutBoard()
		e.showdown()
		return
	}
	e.emitActionOn()
}

// dealNextStreet burns a card, deals the next board cards, and announces the
// cumulative board.
func (e *Engine) dealNextStreet() {
	switch e.street {
	case Preflop:
		e.street = Flop
		e.deck.Burn()
		e.board = append(e.board, e.deck.DealN(3)...)
	case Flop:
		e.street = Turn
		e.deck.Burn()
		e.board = append(e.board, e.deck.Deal())
	case Turn:
		e.street = River
		e.deck.Burn()
		e.board = append(e.board, e.deck.Deal())
	default:
		return
	}

	e.logger.Debug("street dealt", "street", e.street.String(), "board", fmt.Sprint(e.board))
	e.emit(CommunityEvent{Street: e.street, Cards: copyCards(e.board)})
}

// runOutBoard deals every remaining street with no betting in between.
func (e *Engine) runOutBoard() {
	for e.street != River {
		e.dealNextStreet()
	}
}

// awardFoldWin ends the hand when a single live player remains. Their cards
// stay hidden: the showdown event carries no cards and no hand.
func (e *Engine) awardFoldWin() {
	var winner *Player
	for _, p := range e.seats {
		if p != nil && p.Live() {
			winner = p
			break
		}
	}

	amount := e.pot()
	winner.Chips += amount
	e.logger.Info("hand won uncontested", "player", winner.Name, "amount", amount)

	e.emit(ShowdownEvent{Results: []ShowdownResult{{
		PlayerID:  winner.ID,
		WinAmount: amount,
	}}})
	e.finishHand()
}

// showdown evaluates every live hand per pot, splits each pot among its best
// hands, and reports the outcome. Odd chips go to the tied winner closest to
// the dealer's left.
func (e *Engine) showdown() {
	e.street = Showdown
	e.activeSeat = -1
	e.deadline = time.Time{}

	pots := BuildPots(e.inHandPlayers())

	evals := map[string]*EvaluatedHand{}
	for _, p := range e.inHandPlayers() {
		if p.Folded {
			continue
		}
		ev, err := EvaluateBest(append(copyCards(p.HoleCards), e.board...))
		if err != nil {
			panic(fmt.Sprintf("holdem: showdown with short hand for %s: %v", p.ID, err))
		}
		evals[p.ID] = &ev
	}

	winnings := map[string]int{}
	for _, pot := range pots {
		var winners []string
		var best *EvaluatedHand
		for _, id := range pot.Eligible {
			ev := evals[id]
			if best == nil || Compare(*ev, *best) > 0 {
				best = ev
				winners = []string{id}
			} else if Compare(*ev, *best) == 0 {
				winners = append(winners, id)
			}
		}
		if len(winners) == 0 {
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for _, id := range winners {
			winnings[id] += share
		}
		if remainder > 0 {
			winnings[e.firstFromDealerLeft(winners)] += remainder
		}
	}

	var results []ShowdownResult
	for _, p := range e.inHandPlayers() {
		if p.Folded {
			continue
		}
		won := winnings[p.ID]
		p.Chips += won
		results = append(results, ShowdownResult{
			PlayerID:  p.ID,
			Cards:     copyCards(p.HoleCards),
			Hand:      evals[p.ID],
			WinAmount: won,
		})
		if won > 0 {
			e.logger.Info("pot awarded", "player", p.Name, "amount", won, "hand", evals[p.ID].Category.String())
		}
	}

	e.emit(ShowdownEvent{Results: results})
	e.finishHand()
}

// firstFromDealerLeft picks, among the given player ids, the one seated
// closest to the dealer's left. Deterministic odd-chip policy.
func (e *Engine) firstFromDealerLeft(ids []string) string {
	members := map[string]bool{}
	for _, id := range ids {
		members[id] = true
	}
	for i := 1; i <= MaxSeats; i++ {
		seat := (e.dealerSeat + i) % MaxSeats
		if p := e.seats[seat]; p != nil && members[p.ID] {
			return p.ID
		}
	}
	return ids[0]
}

// finishHand releases per-hand state, purges leavers, and closes the hand.
func (e *Engine) finishHand() {
	e.street = Complete
	e.handInProgress = false
	e.activeSeat = -1
	e.deadline = time.Time{}
	e.deck = nil

	for i, p := range e.seats {
		if p != nil && (p.removed || (!p.Connected && p.Chips == 0)) {
			e.seats[i] = nil
		}
	}

	e.logger.Info("hand complete", "hand", e.handNumber)
	e.emit(HandEndEvent{Players: e.views()})
}

// --- events ---

// emit delivers an event to the sink. The sink runs synchronously and must
// not call back into the engine; guard catches it if it does.
func (e *Engine) emit(ev Event) {
	if e.sink == nil {
		return
	}
	e.emitting = true
	defer func() { e.emitting = false }()
	e.sink(ev)
}

func (e *Engine) guard() {
	if e.emitting {
		panic("holdem: engine re-entered from event sink")
	}
}

// emitActionOn records the action deadline and announces the turn.
func (e *Engine) emitActionOn() {
	p := e.seats[e.activeSeat]
	e.deadline = e.clock.Now().Add(e.cfg.ActionTimeout)
	e.emit(ActionOnEvent{
		PlayerID:     p.ID,
		ValidActions: e.betting.ValidActions(p),
		Pot:          e.pot(),
		CurrentBet:   e.betting.CurrentBet,
		Deadline:     e.deadline,
	})
}

// --- roster helpers ---

func (e *Engine) playerByID(id string) *Player {
	for _, p := range e.seats {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) seatedCount() int {
	n := 0
	for _, p := range e.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// eligibleCount counts players who can be dealt into the next hand. This is a
// different predicate from being in the current hand: connectivity and a
// positive stack gate the next deal, not the hand in flight.
func (e *Engine) eligibleCount() int {
	n := 0
	for _, p := range e.seats {
		if p != nil && p.Connected && p.Chips > 0 && !p.SittingOut && !p.removed {
			n++
		}
	}
	return n
}

func (e *Engine) inHandCount() int {
	n := 0
	for _, p := range e.seats {
		if p != nil && p.InHand {
			n++
		}
	}
	return n
}

func (e *Engine) liveCount() int {
	n := 0
	for _, p := range e.seats {
		if p != nil && p.Live() {
			n++
		}
	}
	return n
}

func (e *Engine) canActCount() int {
	n := 0
	for _, p := range e.seats {
		if p != nil && p.CanAct() {
			n++
		}
	}
	return n
}

// nextInHandSeat returns the first seat at or after from (wrapping) holding a
// player dealt into this hand.
func (e *Engine) nextInHandSeat(from int) int {
	from = ((from % MaxSeats) + MaxSeats) % MaxSeats
	for i := 0; i < MaxSeats; i++ {
		seat := (from + i) % MaxSeats
		if p := e.seats[seat]; p != nil && p.InHand {
			return seat
		}
	}
	return -1
}

func (e *Engine) inHandPlayers() []*Player {
	players := make([]*Player, 0, MaxSeats)
	for _, p := range e.seats {
		if p != nil && p.InHand {
			players = append(players, p)
		}
	}
	return players
}

func (e *Engine) pot() int {
	total := 0
	for _, p := range e.seats {
		if p != nil {
			total += p.TotalBet
		}
	}
	return total
}

func (e *Engine) views() []PlayerView {
	views := make([]PlayerView, 0, MaxSeats)
	for _, p := range e.seats {
		if p != nil {
			views = append(views, p.View())
		}
	}
	return views
}

func copyCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
