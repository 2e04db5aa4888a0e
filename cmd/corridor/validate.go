package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexcorridor/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Warnings flag configs that load but play badly.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check match configuration files (JSON or YAML)",
		ArgsUsage: "[files...]",
		Flags:     []cli.Flag{configDirFlag()},
		Action:    runValidate,
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		if files, err = configFiles(cmd.String("config-dir")); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no configuration files found")
	}

	invalid := 0
	for _, file := range files {
		result := validateConfigFile(file)
		printValidation(out, result)
		if !result.Valid {
			invalid++
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintln(out, "❌ Some configurations have errors")
		return fmt.Errorf("%d invalid configuration(s)", invalid)
	}
	fmt.Fprintln(out, "✅ All configurations are valid!")
	return nil
}

func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("error finding config files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// validateConfigFile loads a config exactly as the server would and then
// checks it for playability.
func validateConfigFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	cfg, err := engine.LoadMatchConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Warnings = playabilityWarnings(cfg)
	return result
}

func playabilityWarnings(cfg *engine.MatchConfig) []string {
	var warnings []string

	if cfg.HandSize > cfg.CorridorWidth {
		warnings = append(warnings, fmt.Sprintf(
			"hand_size %d exceeds corridor_width %d: a full hand cannot be placed at once",
			cfg.HandSize, cfg.CorridorWidth))
	}

	interior := (cfg.CorridorLength - 2) * cfg.CorridorWidth
	if cfg.RespawnCount > interior {
		warnings = append(warnings, fmt.Sprintf(
			"respawn_count %d exceeds the %d interior tiles: rewards never respawn",
			cfg.RespawnCount, interior))
	}

	for _, t := range cfg.Templates {
		if t.Speed >= cfg.CorridorLength-1 {
			warnings = append(warnings, fmt.Sprintf(
				"template %q (speed %d) crosses the whole corridor in one move",
				t.Name, t.Speed))
		}
	}
	return warnings
}

func printValidation(out io.Writer, result ValidationResult) {
	fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
	if !result.Valid {
		fmt.Fprintln(out, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(out, "  ❌ "+e)
		}
		return
	}

	fmt.Fprintln(out, "✅ VALID")
	for _, w := range result.Warnings {
		fmt.Fprintln(out, "  ⚠ "+w)
	}
}
