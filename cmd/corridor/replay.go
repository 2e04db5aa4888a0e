package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexcorridor/game/config"
	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/session"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "rebuild a stored session from its seed and action log and compare it with the saved state",
		ArgsUsage: "[session-file]",
		Flags: []cli.Flag{
			configDirFlag(),
			&cli.StringFlag{Name: "sqlite", Usage: "read the session from this SQLite database instead of a file"},
			&cli.StringFlag{Name: "session", Usage: "session id (with --sqlite)"},
			&cli.BoolFlag{Name: "board", Usage: "print the replayed board"},
		},
		Action: runReplay,
	}
}

func runReplay(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	data, err := loadStoredSession(cmd, configs)
	if err != nil {
		return err
	}

	cfg, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	eng, err := engine.Replay(cfg, engine.MatchOptions{MatchID: data.MatchID, Seed: data.Seed}, data.History)
	if err != nil {
		return err
	}

	printReplaySummary(out, data, eng)
	if cmd.Bool("board") {
		for _, row := range engine.RenderBoard(eng.GetState()) {
			fmt.Fprintln(out, row)
		}
	}

	if data.GameState == nil {
		fmt.Fprintln(out, "no snapshot stored, nothing to compare")
		return nil
	}
	if !engine.SameState(eng.GetState(), data.GameState) {
		fmt.Fprintln(out, "❌ replay differs from the stored snapshot")
		return fmt.Errorf("session %s: replay differs from snapshot", data.ID)
	}
	fmt.Fprintln(out, "✅ replay matches the stored snapshot")
	return nil
}

func loadStoredSession(cmd *cli.Command, configs *config.Manager) (*session.PersistedSessionData, error) {
	if dbPath := cmd.String("sqlite"); dbPath != "" {
		id := cmd.String("session")
		if id == "" {
			return nil, fmt.Errorf("--session is required with --sqlite")
		}
		store, err := session.NewSQLitePersistence(dbPath, configs)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadData(id)
	}

	if cmd.Args().Len() != 1 {
		return nil, fmt.Errorf("expected exactly one session file, or --sqlite and --session")
	}
	return session.ReadSessionFile(cmd.Args().First())
}

func printReplaySummary(out io.Writer, data *session.PersistedSessionData, eng *engine.GameEngine) {
	accepted, rejected := 0, 0
	for _, rec := range data.History {
		if rec.Accepted {
			accepted++
		} else {
			rejected++
		}
	}

	s := engine.Summarize(eng.GetState())
	fmt.Fprintf(out, "Session %s (config %s, match %s, seed %d)\n", data.ID, data.ConfigName, data.MatchID, data.Seed)
	fmt.Fprintf(out, "Actions: %d accepted, %d rejected\n", accepted, rejected)
	fmt.Fprintf(out, "Turn %d, %s to act, phase %s\n", s.TurnCount, s.CurrentPlayer, s.Phase)
	fmt.Fprintf(out, "Fortress player1: %d | player2: %d\n", s.Player1HP, s.Player2HP)
	if s.Winner != "" {
		fmt.Fprintf(out, "Winner: %s\n", s.Winner)
	}
}
