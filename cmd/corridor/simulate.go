package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexcorridor/game/config"
	"github.com/wricardo/hexcorridor/game/engine"
)

// SimulationResult is the outcome of one bot-vs-bot match. Winner is empty
// when the turn limit was reached first.
type SimulationResult struct {
	Seed    int64
	Winner  engine.Player
	Turns   int
	Actions int
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play matches between two random bots and tally the winners",
		Flags: []cli.Flag{
			configDirFlag(),
			&cli.StringFlag{Name: "config", Usage: "config id (default: the server default)"},
			&cli.Int64Flag{Name: "seed", Usage: "seed of the first match, incremented per match (0 draws random seeds)"},
			&cli.IntFlag{Name: "games", Value: 10, Usage: "number of matches"},
			&cli.IntFlag{Name: "max-turns", Value: 200, Usage: "turn limit per match"},
		},
		Action: runSimulate,
	}
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	cfg := configs.GetDefault()
	if name := cmd.String("config"); name != "" {
		if cfg, err = configs.LoadConfig(name); err != nil {
			return err
		}
	}

	games := cmd.Int("games")
	if games < 1 {
		return fmt.Errorf("--games must be at least 1")
	}
	maxTurns := cmd.Int("max-turns")
	baseSeed := cmd.Int64("seed")

	fmt.Fprintf(out, "Simulating %d matches on %s (%dx%d)\n\n", games, cfg.Name, cfg.CorridorLength, cfg.CorridorWidth)

	wins := map[engine.Player]int{}
	unfinished, totalTurns := 0, 0
	for i := 0; i < games; i++ {
		var seed int64
		if baseSeed != 0 {
			seed = baseSeed + int64(i)
		}

		res, err := SimulateMatch(cfg, seed, maxTurns)
		if err != nil {
			return err
		}

		winner := string(res.Winner)
		if res.Winner == "" {
			winner = "none"
			unfinished++
		} else {
			wins[res.Winner]++
		}
		totalTurns += res.Turns
		fmt.Fprintf(out, "  #%-3d seed=%-20d winner=%-8s turns=%-4d actions=%d\n", i+1, res.Seed, winner, res.Turns, res.Actions)
	}

	percent := func(n int) float64 { return 100 * float64(n) / float64(games) }
	fmt.Fprintf(out, "\nplayer1 wins: %d (%.1f%%)\n", wins[engine.Player1], percent(wins[engine.Player1]))
	fmt.Fprintf(out, "player2 wins: %d (%.1f%%)\n", wins[engine.Player2], percent(wins[engine.Player2]))
	fmt.Fprintf(out, "unfinished:   %d\n", unfinished)
	fmt.Fprintf(out, "avg turns:    %.1f\n", float64(totalTurns)/float64(games))
	return nil
}

// SimulateMatch plays one match where both sides pick uniformly among their
// legal actions. A zero seed draws a random one. Any rejection of an
// enumerated legal action is returned as an error.
func SimulateMatch(cfg *engine.MatchConfig, seed int64, maxTurns int) (SimulationResult, error) {
	eng, err := engine.NewEngine(cfg, engine.MatchOptions{Seed: seed})
	if err != nil {
		return SimulationResult{}, err
	}

	res := SimulationResult{Seed: eng.GetSeed()}
	rng := rand.New(rand.NewSource(res.Seed))

	for !eng.IsGameOver() && eng.GetState().TurnCount < maxTurns {
		legal := eng.GetLegalActions()
		if len(legal) == 0 {
			break
		}
		action := legal[rng.Intn(len(legal))]

		if err := applyWithSelection(eng, action); err != nil {
			return res, fmt.Errorf("seed %d turn %d: %w", res.Seed, eng.GetState().TurnCount, err)
		}
		res.Actions++
	}

	res.Winner = eng.GetWinner()
	res.Turns = eng.GetState().TurnCount
	return res, nil
}

// applyWithSelection selects the acting unit first when the action needs it
func applyWithSelection(eng *engine.GameEngine, action engine.Action) error {
	var cardID string
	switch action.Type {
	case engine.ActionMoveUnit:
		cardID = action.CardID
	case engine.ActionAttackUnit, engine.ActionAttackFortress:
		cardID = action.AttackerID
	}

	if cardID != "" && eng.GetState().SelectedCardID != cardID {
		if _, _, err := eng.Apply(engine.NewSelectCard(action.PlayerID, cardID)); err != nil {
			return fmt.Errorf("select %s: %w", cardID, err)
		}
	}

	_, _, err := eng.Apply(action)
	return err
}
