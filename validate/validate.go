// Command validate checks the match presets in a config directory
// (../configs by default, or the first argument). For each .json or .hcl
// preset it checks:
//   - the file parses and passes engine.ValidateMatchConfig
//   - seeded random placement finishes for a number of trials, within a
//     time limit, and lays down exactly the roster's ship cells
//
// It exits with non-zero status if any preset is invalid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/battleship/game/config"
	"github.com/wricardo/battleship/game/engine"
)

const (
	defaultTrials  = 50
	defaultTimeout = 5 * time.Second
)

var errPlacementTimeout = errors.New("placement did not finish")

// ValidationResult captures the outcome of validating a single preset.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// trialResult is the outcome of one seeded placement
type trialResult struct {
	seed     int64
	attempts int
	cells    int
	blocked  int
}

// validatePreset loads one preset file through the config manager and runs
// seeded placement trials for it
func validatePreset(ctx context.Context, manager *config.Manager, filename string, trials int, timeout time.Duration) ValidationResult {
	result := ValidationResult{
		File:   filename,
		Valid:  true,
		Errors: []string{},
	}

	preset, err := manager.LoadConfig(filename)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	stats, err := runTrials(ctx, preset, trials, timeout)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	want := preset.Ships.TotalCells()
	maxAttempts, total, blocked := 0, 0, 0
	for _, s := range stats {
		if s.cells != want {
			result.fail("seed %d placed %d ship cells, expected %d", s.seed, s.cells, want)
		}
		total += s.attempts
		blocked += s.blocked
		maxAttempts = max(maxAttempts, s.attempts)
	}
	if !result.Valid {
		return result
	}

	result.info("Name: %s", preset.Name)
	result.info("Board: %dx%d", preset.BoardSize, preset.BoardSize)
	result.info("Ships: %d (%d cells)", preset.TotalShips(), want)
	result.info("Placement: %d trials, mean %.1f attempts, max %d",
		len(stats), float64(total)/float64(len(stats)), maxAttempts)
	result.info("Buffer: mean %.1f blocked cells of %d", float64(blocked)/float64(len(stats)), preset.BoardSize*preset.BoardSize)
	return result
}

// runTrials places the preset's roster once per seed 1..trials, concurrently.
// Placement retries without a cap, so every trial stops when the timeout
// expires.
func runTrials(ctx context.Context, preset *engine.MatchConfig, trials int, timeout time.Duration) ([]trialResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	results := make([]trialResult, trials)

	launched := 0
	for i := range trials {
		if ctx.Err() != nil {
			break
		}
		launched++
		seed := int64(i + 1)
		g.Go(func() error {
			grid := engine.NewShipGrid(preset.BoardSize, preset.BoardSize)
			stats, err := engine.PlaceAllRandomlyContext(ctx, grid, preset.Ships, engine.NewRand(seed))
			if err != nil {
				return fmt.Errorf("%w for seed %d within %s", errPlacementTimeout, seed, timeout)
			}
			results[i] = trialResult{
				seed:     seed,
				attempts: stats.Attempts,
				cells:    grid.CountShipSquares(),
				blocked:  engine.CountSquareKind(grid, engine.WaterNoPlace),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if launched < trials {
		return nil, fmt.Errorf("%w within %s", errPlacementTimeout, timeout)
	}
	return results, nil
}

// presetFiles lists the .json and .hcl files of dir, sorted
func presetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".json" || ext == ".hcl") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// run validates every preset in dir and writes the report to w. It returns
// false when any preset is invalid.
func run(ctx context.Context, w io.Writer, dir string, trials int, timeout time.Duration) (bool, error) {
	manager, err := config.NewManager(dir, log.New(io.Discard))
	if err != nil {
		return false, err
	}
	files, err := presetFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}

	allValid := true
	for _, file := range files {
		result := validatePreset(ctx, manager, file, trials, timeout)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	ok, err := run(context.Background(), os.Stdout, configDir, defaultTrials, defaultTimeout)
	if err != nil {
		log.Error("validation failed", "dir", configDir, "err", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
