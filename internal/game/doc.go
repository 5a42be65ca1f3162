// Package game implements the core poker game logic for Texas Hold'em.
//
// The main type is Engine, which runs one table: it seats players, conducts
// hands from blinds through showdown, and reports everything that happens as
// a stream of typed events into an operator-supplied sink.
//
// # Basic Usage
//
// Create an engine, seat players, and drive hands with actions:
//
//	eng := game.New(game.DefaultConfig(), func(ev game.Event) {
//	    // queue for delivery; never call back into the engine from here
//	})
//	eng.AddPlayer("p1", "Alice", 0)
//	eng.AddPlayer("p2", "Bob", 1)
//	eng.StartHand()
//	eng.HandleAction("p1", game.Call, 0)
//
// The engine is single-threaded: serialise all calls through one goroutine
// or mutex. The only asynchrony is the action timer, which the operator
// drives by calling TickTimeout.
//
// # Deterministic Testing
//
// Every source of nondeterminism is injectable:
//
//	mock := quartz.NewMock(t)
//	eng := game.New(cfg, sink,
//	    game.WithClock(mock),
//	    game.WithGenerator(rng.Seeded(42)),
//	    game.WithDeckFactory(func() *deck.Deck { return deck.NewStacked(cards...) }),
//	)
//
// # Architecture
//
// Engine delegates to specialized components:
//   - BettingRound: table-level betting state and action validation
//   - BuildPots: pure side-pot construction from per-hand contributions
//   - EvaluateBest: exhaustive best-five hand evaluation with tiebreaks
//   - deck.Deck: shuffled cards behind a read cursor
//
// Hands are independent: per-hand state is rebuilt by StartHand and the deck
// is discarded when the hand completes.
package game
