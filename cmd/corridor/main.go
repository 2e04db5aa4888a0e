// Command corridor is the offline toolbox for Hex Corridor: it simulates
// matches between random bots, validates match configuration files and
// verifies that stored sessions replay to their saved state.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func configDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Value:   "configs",
		Usage:   "directory containing match configurations",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "corridor",
		Usage: "Hex Corridor match tools",
		Commands: []*cli.Command{
			simulateCommand(),
			validateCommand(),
			replayCommand(),
		},
	}
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
