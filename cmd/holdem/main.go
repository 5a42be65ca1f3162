package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mkrall/holdem/internal/config"
	"github.com/mkrall/holdem/internal/deck"
	"github.com/mkrall/holdem/internal/game"
	"github.com/mkrall/holdem/internal/rng"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1A7A4C")).
			Padding(0, 1).
			Bold(true)

	streetStyle = lipgloss.NewStyle().Bold(true)
	redCard     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blackCard   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

type CLI struct {
	Config  string `help:"Path to HCL config file" default:"holdem.hcl"`
	Table   string `help:"Table name from the config" default:"main"`
	Hands   int    `short:"n" help:"Number of hands to play" default:"3"`
	Players int    `short:"p" help:"Number of players to seat (2-6)" default:"4"`
	Seed    int64  `help:"Shuffle seed; 0 uses crypto randomness" default:"0"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	if cli.Players < 2 || cli.Players > game.MaxSeats {
		log.Fatal("invalid player count", "players", cli.Players)
	}

	fmt.Print(titleStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	fmt.Println()
	fmt.Println()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	if err := run(cli, logger); err != nil {
		log.Fatal("game failed", "error", err)
	}

	ctx.Exit(0)
}

type app struct {
	pending  *game.ActionOnEvent
	handDone bool
	names    map[string]string
}

func run(cli CLI, logger *log.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	table := cfg.GetTableByName(cli.Table)
	if table == nil {
		return fmt.Errorf("no table %q in config", cli.Table)
	}

	var gen rng.Generator = rng.Crypto{}
	opts := []game.Option{game.WithLogger(logger)}
	if cli.Seed != 0 {
		gen = rng.Seeded(cli.Seed + 1)
		opts = append(opts, game.WithGenerator(rng.Seeded(cli.Seed)))
	}

	a := &app{names: map[string]string{}}
	eng := game.New(table.EngineConfig(), a.render, opts...)

	for i := 0; i < cli.Players; i++ {
		id := fmt.Sprintf("player-%d", i+1)
		name := fmt.Sprintf("Player %d", i+1)
		if err := eng.AddPlayer(id, name, i); err != nil {
			return err
		}
		a.names[id] = name
	}

	for hand := 1; hand <= cli.Hands; hand++ {
		if !eng.CanStartHand() {
			logger.Warn("cannot start another hand", "hand", hand)
			break
		}
		a.handDone = false
		if err := eng.StartHand(); err != nil {
			return err
		}

		// The sink only records the pending turn; commands re-enter the
		// engine from this loop, never from inside the sink.
		for !a.handDone {
			ev := a.pending
			if ev == nil {
				return fmt.Errorf("hand stalled with no player on action")
			}
			a.pending = nil

			action, amount := decide(gen, *ev)
			if err := eng.HandleAction(ev.PlayerID, action, amount); err != nil {
				logger.Debug("action rejected, folding instead", "error", err)
				if err := eng.HandleAction(ev.PlayerID, game.Fold, 0); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// decide picks a casual action: mostly passive, occasionally a min-raise or a
// fold, so hands wander through every street.
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
	case raise != nil && roll < 15:
		return game.Raise, raise.Min
	case canCheck:
		return game.Check, 0
	case roll < 35:
		return game.Fold, 0
	default:
		return game.Call, 0
	}
}

// render prints one line per event.
func (a *app) render(ev game.Event) {
	switch ev := ev.(type) {
	case game.HandStartEvent:
		fmt.Println()
		fmt.Println(streetStyle.Render(fmt.Sprintf("--- Hand #%d ---", ev.HandNumber)))
		for _, p := range ev.Players {
			marker := " "
			if p.Seat == ev.DealerSeat {
				marker = "D"
			}
			fmt.Printf("  %s seat %d  %-10s %4d chips\n", marker, p.Seat, p.Name, p.Chips)
		}

	case game.HoleCardsEvent:
		fmt.Printf("  dealt to %s: %s\n", a.names[ev.PlayerID], renderCards(ev.Cards))

	case game.CommunityEvent:
		banner := strings.ToUpper(ev.Street.String())
		fmt.Printf("%s %s\n", streetStyle.Render("*** "+banner+" ***"), renderCards(ev.Cards))

	case game.ActionOnEvent:
		a.pending = &ev
		fmt.Println(dimStyle.Render(fmt.Sprintf("  action on %s (pot %d, to match %d)",
			a.names[ev.PlayerID], ev.Pot, ev.CurrentBet)))

	case game.PlayerActedEvent:
		fmt.Printf("  %s: %s", a.names[ev.PlayerID], ev.Action)
		if ev.Action != game.Fold && ev.Action != game.Check {
			fmt.Printf(" %d", ev.Amount)
		}
		fmt.Printf(" (pot %d)\n", ev.Pot)

	case game.PotUpdateEvent:
		if len(ev.SidePots) > 1 {
			parts := make([]string, len(ev.SidePots))
			for i, pot := range ev.SidePots {
				parts[i] = fmt.Sprintf("%d", pot.Amount)
			}
			fmt.Println(dimStyle.Render(fmt.Sprintf("  pot %d (%s)", ev.Pot, strings.Join(parts, " + "))))
		} else {
			fmt.Println(dimStyle.Render(fmt.Sprintf("  pot %d", ev.Pot)))
		}

	case game.ShowdownEvent:
		for _, r := range ev.Results {
			line := fmt.Sprintf("  %s", a.names[r.PlayerID])
			if len(r.Cards) > 0 {
				line += " shows " + renderCards(r.Cards)
			}
			if r.Hand != nil {
				line += " (" + r.Hand.Category.String() + ")"
			}
			if r.WinAmount > 0 {
				line += fmt.Sprintf(" wins %d", r.WinAmount)
			}
			fmt.Println(line)
		}

	case game.HandEndEvent:
		a.handDone = true
		a.pending = nil
	}
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = redCard.Render(c.String())
		} else {
			parts[i] = blackCard.Render(c.String())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
