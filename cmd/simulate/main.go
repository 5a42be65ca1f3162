package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mkrall/holdem/internal/game"
	"github.com/mkrall/holdem/internal/rng"
)

type CLI struct {
	Tables  int   `short:"t" help:"Number of tables to run in parallel" default:"4"`
	Hands   int   `short:"n" help:"Hands to play per table" default:"250"`
	Players int   `short:"p" help:"Players per table (2-6)" default:"5"`
	Seed    int64 `help:"Base seed; each table derives its own" default:"1"`
	Verbose bool  `short:"v" help:"Enable debug logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	if cli.Players < 2 || cli.Players > game.MaxSeats {
		log.Fatal("invalid player count", "players", cli.Players)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var g errgroup.Group
	for t := 0; t < cli.Tables; t++ {
		g.Go(func() error {
			hands, err := runTable(cli, cli.Seed+int64(t)*7919)
			if err != nil {
				return fmt.Errorf("table %d: %w", t, err)
			}
			logger.Info("table complete", "table", t, "hands", hands)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("simulation failed", "error", err)
	}

	logger.Info("all tables passed", "tables", cli.Tables, "hands_per_table", cli.Hands)
	ctx.Exit(0)
}

// auditor checks the engine's accounting invariants on every pot_update and
// hand_end event.
type auditor struct {
	totalChips int
	pending    *game.ActionOnEvent
	handDone   bool
	violation  error
}

func (a *auditor) sink(ev game.Event) {
	switch ev := ev.(type) {
	case game.ActionOnEvent:
		a.pending = &ev

	case game.PotUpdateEvent:
		sum := 0
		for _, pot := range ev.SidePots {
			sum += pot.Amount
			if pot.Amount > 0 && len(pot.Eligible) == 0 {
				a.fail(fmt.Errorf("pot of %d with no eligible players", pot.Amount))
			}
		}
		if sum != ev.Pot {
			a.fail(fmt.Errorf("side pots sum to %d, pot is %d", sum, ev.Pot))
		}
		// Eligibility can only narrow from the main pot outwards
		for i := 1; i < len(ev.SidePots); i++ {
			if len(ev.SidePots[i].Eligible) > len(ev.SidePots[i-1].Eligible) {
				a.fail(fmt.Errorf("side pot %d eligibility grew", i))
			}
		}

	case game.HandEndEvent:
		sum := 0
		for _, p := range ev.Players {
			sum += p.Chips
		}
		if sum != a.totalChips {
			a.fail(fmt.Errorf("chips not conserved: have %d, want %d", sum, a.totalChips))
		}
		a.handDone = true
		a.pending = nil
	}
}

func (a *auditor) fail(err error) {
	if a.violation == nil {
		a.violation = err
	}
}

func runTable(cli CLI, seed int64) (int, error) {
	decisions := rng.Seeded(seed + 1)

	a := &auditor{totalChips: cli.Players * game.DefaultConfig().BuyIn}
	eng := game.New(game.DefaultConfig(), a.sink, game.WithGenerator(rng.Seeded(seed)))

	for i := 0; i < cli.Players; i++ {
		if err := eng.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("p%d", i), i); err != nil {
			return 0, err
		}
	}

	played := 0
	for hand := 0; hand < cli.Hands; hand++ {
		if !eng.CanStartHand() {
			break
		}
		a.handDone = false
		if err := eng.StartHand(); err != nil {
			return played, err
		}

		for !a.handDone {
			ev := a.pending
			if ev == nil {
				return played, fmt.Errorf("hand %d stalled with no player on action", hand)
			}
			a.pending = nil

			action, amount := decide(decisions, *ev)
			if err := eng.HandleAction(ev.PlayerID, action, amount); err != nil {
				return played, fmt.Errorf("hand %d: %s rejected: %w", hand, action, err)
			}
		}

		if a.violation != nil {
			return played, a.violation
		}
		played++

		// Busted players leave the roster with zero chips; keep the
		// conservation target honest.
		sum := 0
		for _, p := range eng.Players() {
			sum += p.Chips
		}
		a.totalChips = sum
	}

	return played, nil
}

// decide plays loose-passive with occasional min-raises and shoves so that
// side pots and all-in runouts show up regularly.
func decide(gen rng.Generator, ev game.ActionOnEvent) (game.Action, int) {
	var canCheck bool
	var raise *game.ValidAction
	for i, va := range ev.ValidActions {
		switch va.Action {
		case game.Check:
			canCheck = true
		case game.Raise:
			raise = &ev.ValidActions[i]
		}
	}

	roll := gen.Intn(100)
	switch {
	case raise != nil && roll < 4:
		return game.AllIn, 0
	case raise != nil && roll < 18:
		return game.Raise, raise.Min
	case canCheck:
		return game.Check, 0
	case roll < 40:
		return game.Fold, 0
	default:
		return game.Call, 0
	}
}
