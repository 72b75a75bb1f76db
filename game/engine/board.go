package engine

import (
	"context"
	rand "math/rand/v2"
)

// ShipGrid is a player's own board, indexed [row][col]
type ShipGrid [][]Square

// NewShipGrid creates a rows x cols grid of open water
func NewShipGrid(rows, cols int) ShipGrid {
	grid := make(ShipGrid, rows)
	for i := range grid {
		grid[i] = make([]Square, cols)
	}
	return grid
}

// Rows returns the number of rows in the grid
func (g ShipGrid) Rows() int {
	return len(g)
}

// Cols returns the number of columns in the grid
func (g ShipGrid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Contains reports whether c lies on the grid
func (g ShipGrid) Contains(c Coord) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < g.Rows() && c.Col < g.Cols()
}

// At returns the square at c. It expects a coordinate on the grid.
func (g ShipGrid) At(c Coord) Square {
	return g[c.Row][c.Col]
}

// Clone returns a deep copy of the grid
func (g ShipGrid) Clone() ShipGrid {
	out := make(ShipGrid, len(g))
	for i, row := range g {
		out[i] = append([]Square(nil), row...)
	}
	return out
}

// CountShipSquares returns the number of ship segments on the grid, hit or not
func (g ShipGrid) CountShipSquares() int {
	count := 0
	for _, row := range g {
		for _, sq := range row {
			if sq.IsShip() {
				count++
			}
		}
	}
	return count
}

// ShotGrid is a player's record of shots at the opponent, indexed [row][col]
type ShotGrid [][]ShotMark

// NewShotGrid creates a rows x cols grid with no shots
func NewShotGrid(rows, cols int) ShotGrid {
	grid := make(ShotGrid, rows)
	for i := range grid {
		grid[i] = make([]ShotMark, cols)
	}
	return grid
}

// Clone returns a deep copy of the grid
func (g ShotGrid) Clone() ShotGrid {
	out := make(ShotGrid, len(g))
	for i, row := range g {
		out[i] = append([]ShotMark(nil), row...)
	}
	return out
}

// Count returns the number of cells holding the given mark
func (g ShotGrid) Count(mark ShotMark) int {
	count := 0
	for _, row := range g {
		for _, m := range row {
			if m == mark {
				count++
			}
		}
	}
	return count
}

// step returns the row/col increments for an orientation
func step(o Orientation) (int, int) {
	if o == Vertical {
		return 1, 0
	}
	return 0, 1
}

// CanPlace reports whether a ship of the given kind fits at topLeft.
// Ships extend right or down from topLeft, so only the bottom-right cell
// needs checking against the upper bounds.
func CanPlace(grid ShipGrid, kind ShipKind, topLeft Coord, o Orientation) bool {
	length := kind.Length()
	dr, dc := step(o)
	bottomRight := Coord{Row: topLeft.Row + dr*(length-1), Col: topLeft.Col + dc*(length-1)}
	if !grid.Contains(topLeft) || !grid.Contains(bottomRight) {
		return false
	}

	for i := 0; i < length; i++ {
		if grid[topLeft.Row+dr*i][topLeft.Col+dc*i].Kind != Water {
			return false
		}
	}
	return true
}

// TryPlace places a ship if CanPlace allows it. The ship's bounding box
// padded by one cell (clipped to the grid) becomes WaterNoPlace and the
// ship cells become ship segments. It returns false without touching the
// grid when the placement is illegal.
func TryPlace(grid ShipGrid, kind ShipKind, topLeft Coord, o Orientation) bool {
	if !CanPlace(grid, kind, topLeft, o) {
		return false
	}

	length := kind.Length()
	dr, dc := step(o)
	lastRow := topLeft.Row + dr*(length-1)
	lastCol := topLeft.Col + dc*(length-1)

	for r := topLeft.Row - 1; r <= lastRow+1; r++ {
		for c := topLeft.Col - 1; c <= lastCol+1; c++ {
			if !grid.Contains(Coord{Row: r, Col: c}) {
				continue
			}
			grid[r][c] = Square{Kind: WaterNoPlace}
		}
	}

	for i := 0; i < length; i++ {
		grid[topLeft.Row+dr*i][topLeft.Col+dc*i] = ShipOf(kind)
	}
	return true
}

// PlacementStats reports how much rejection sampling a placement took
type PlacementStats struct {
	Ships    int `json:"ships"`
	Attempts int `json:"attempts"`
}

// PlaceAllRandomly places every ship of the roster at uniformly drawn
// positions and orientations, retrying each ship until it fits.
// There is no retry cap: a roster that cannot fit loops forever.
func PlaceAllRandomly(grid ShipGrid, roster Roster, rng *rand.Rand) {
	PlaceAllRandomlyWithStats(grid, roster, rng)
}

// PlaceAllRandomlyWithStats is PlaceAllRandomly that also counts attempts
func PlaceAllRandomlyWithStats(grid ShipGrid, roster Roster, rng *rand.Rand) PlacementStats {
	stats, _ := placeAll(grid, roster, rng, func() error { return nil })
	return stats
}

// PlaceAllRandomlyContext is PlaceAllRandomlyWithStats that gives up with
// ctx.Err() once ctx is done, leaving the grid partially placed. It draws
// the same positions as PlaceAllRandomly for the same rng.
func PlaceAllRandomlyContext(ctx context.Context, grid ShipGrid, roster Roster, rng *rand.Rand) (PlacementStats, error) {
	return placeAll(grid, roster, rng, ctx.Err)
}

// placeAll is the rejection sampling loop; stop is checked before every attempt
func placeAll(grid ShipGrid, roster Roster, rng *rand.Rand, stop func() error) (PlacementStats, error) {
	var stats PlacementStats
	rows, cols := grid.Rows(), grid.Cols()

	for _, entry := range roster {
		for i := 0; i < entry.Count; i++ {
			for {
				if err := stop(); err != nil {
					return stats, err
				}
				stats.Attempts++
				topLeft := Coord{Row: rng.IntN(rows), Col: rng.IntN(cols)}
				o := Orientation(rng.IntN(2))
				if TryPlace(grid, entry.Kind, topLeft, o) {
					break
				}
			}
			stats.Ships++
		}
	}
	return stats, nil
}
