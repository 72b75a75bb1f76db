// Command analyze prints quick, human-readable heuristics about the match
// presets in the project's configs directory. For each preset it summarizes
// the board, the fleet, how much of the board the ships and their buffer
// rings claim, and how many random attempts placement takes on average.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/battleship/game/config"
	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/render"
)

const (
	defaultSamples = 200
	sampleTimeout  = 5 * time.Second

	// crowdedRatio is the footprint/area ratio above which placement slows down
	crowdedRatio = 0.6
)

// Analysis holds the heuristics for one preset
type Analysis struct {
	ConfigID  string
	Name      string
	BoardSize int
	Area      int
	Ships     int
	ShipCells int
	// Footprint counts every ship with its full buffer ring, ignoring edges
	Footprint      int
	CellDensity    float64
	FootprintRatio float64
	Samples        int
	MeanAttempts   float64
	MaxAttempts    int
	// Stalled is set when sampling did not finish within the time limit
	Stalled bool
}

func analyzePreset(ctx context.Context, id string, preset *engine.MatchConfig, samples int, timeout time.Duration) Analysis {
	area := preset.BoardSize * preset.BoardSize
	a := Analysis{
		ConfigID:  id,
		Name:      preset.Name,
		BoardSize: preset.BoardSize,
		Area:      area,
		Ships:     preset.Ships.TotalShips(),
		ShipCells: preset.Ships.TotalCells(),
		Footprint: preset.Ships.Footprint(),
	}
	a.CellDensity = float64(a.ShipCells) / float64(area)
	a.FootprintRatio = float64(a.Footprint) / float64(area)

	attempts, err := sampleAttempts(ctx, preset, samples, timeout)
	if err != nil {
		a.Stalled = true
		return a
	}

	total := 0
	for _, n := range attempts {
		total += n
		a.MaxAttempts = max(a.MaxAttempts, n)
	}
	a.Samples = len(attempts)
	if a.Samples > 0 {
		a.MeanAttempts = float64(total) / float64(a.Samples)
	}
	return a
}

// sampleAttempts runs seeded placements 1..samples on a bounded worker pool
// and returns the attempt count of each
func sampleAttempts(ctx context.Context, preset *engine.MatchConfig, samples int, timeout time.Duration) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	attempts := make([]int, samples)

	launched := 0
	for i := range samples {
		if ctx.Err() != nil {
			break
		}
		launched++
		g.Go(func() error {
			grid := engine.NewShipGrid(preset.BoardSize, preset.BoardSize)
			stats, err := engine.PlaceAllRandomlyContext(ctx, grid, preset.Ships, engine.NewRand(int64(i+1)))
			if err != nil {
				return err
			}
			attempts[i] = stats.Attempts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if launched < samples {
		return nil, context.DeadlineExceeded
	}
	return attempts, nil
}

func printAnalysis(w io.Writer, r *render.Renderer, a Analysis, roster engine.Roster) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.ConfigID)
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprint(w, r.GameInfo(a.BoardSize, roster))
	fmt.Fprintf(w, "Ship cells: %d of %d (%.1f%%)\n", a.ShipCells, a.Area, a.CellDensity*100)
	fmt.Fprintf(w, "Buffered footprint: %d of %d (%.1f%%)\n", a.Footprint, a.Area, a.FootprintRatio*100)

	switch {
	case a.Stalled:
		fmt.Fprintf(w, "⚠️  CRITICAL: placement did not finish; the fleet likely cannot fit with its buffers\n")
	case a.FootprintRatio > 1:
		fmt.Fprintf(w, "⚠️  WARNING: buffered footprint exceeds the board; placement relies on edge clipping\n")
	case a.FootprintRatio > crowdedRatio:
		fmt.Fprintf(w, "⚠️  WARNING: crowded board, placement retries often\n")
	default:
		fmt.Fprintf(w, "✅ Fleet fits comfortably\n")
	}

	if !a.Stalled {
		fmt.Fprintf(w, "Placement attempts: mean %.1f, max %d over %d samples\n", a.MeanAttempts, a.MaxAttempts, a.Samples)
	}
}

// run analyzes every preset the config manager can see in dir
func run(ctx context.Context, w io.Writer, dir string, samples int, timeout time.Duration) error {
	manager, err := config.NewManager(dir, log.New(io.Discard))
	if err != nil {
		return err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	r := render.New(false)
	for _, info := range infos {
		preset, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "\n=== Analyzing %s ===\nError loading preset: %v\n", info.ConfigID, err)
			continue
		}
		printAnalysis(w, r, analyzePreset(ctx, info.ConfigID, preset, samples, timeout), preset.Ships)
	}
	return nil
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	if err := run(context.Background(), os.Stdout, configDir, defaultSamples, sampleTimeout); err != nil {
		log.Error("analysis failed", "dir", configDir, "err", err)
		os.Exit(1)
	}
}
