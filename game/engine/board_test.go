package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coordSet collects coordinates of squares matching pred
func coordSet(grid ShipGrid, pred func(Square) bool) map[Coord]bool {
	set := make(map[Coord]bool)
	for r, row := range grid {
		for c, sq := range row {
			if pred(sq) {
				set[Coord{Row: r, Col: c}] = true
			}
		}
	}
	return set
}

func coords(cs ...Coord) map[Coord]bool {
	set := make(map[Coord]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return set
}

func isNoPlace(sq Square) bool { return sq.Kind == WaterNoPlace }

func TestNewShipGrid(t *testing.T) {
	grid := NewShipGrid(4, 6)
	assert.Equal(t, 4, grid.Rows())
	assert.Equal(t, 6, grid.Cols())
	assert.Equal(t, 24, CountSquareKind(grid, Water))
	assert.False(t, grid.Contains(Coord{Row: 4, Col: 0}))
	assert.False(t, grid.Contains(Coord{Row: 0, Col: -1}))
	assert.True(t, grid.Contains(Coord{Row: 3, Col: 5}))
}

func TestTryPlace_CornerBuffer(t *testing.T) {
	grid := NewShipGrid(6, 6)

	require.True(t, TryPlace(grid, PatrolBoat, Coord{Row: 0, Col: 0}, Horizontal))

	assert.Equal(t, coords(Coord{0, 0}, Coord{0, 1}), coordSet(grid, Square.IsShip))
	assert.Equal(t, coords(Coord{0, 2}, Coord{1, 0}, Coord{1, 1}, Coord{1, 2}), coordSet(grid, isNoPlace))
	assert.Equal(t, ShipOf(PatrolBoat), grid[0][0])
	assert.Equal(t, 36-6, CountSquareKind(grid, Water))
}

func TestTryPlace_VerticalThenHorizontal(t *testing.T) {
	grid := NewShipGrid(6, 6)

	require.True(t, TryPlace(grid, Submarine, Coord{Row: 1, Col: 2}, Vertical))
	assert.Equal(t, coords(Coord{1, 2}, Coord{2, 2}, Coord{3, 2}), coordSet(grid, Square.IsShip))

	expectedBuffer := coords(
		Coord{0, 1}, Coord{0, 2}, Coord{0, 3},
		Coord{1, 1}, Coord{1, 3},
		Coord{2, 1}, Coord{2, 3},
		Coord{3, 1}, Coord{3, 3},
		Coord{4, 1}, Coord{4, 2}, Coord{4, 3},
	)
	assert.Equal(t, expectedBuffer, coordSet(grid, isNoPlace))

	require.True(t, TryPlace(grid, PatrolBoat, Coord{Row: 5, Col: 4}, Horizontal))
	for c := range coords(Coord{4, 3}, Coord{4, 4}, Coord{4, 5}, Coord{5, 3}) {
		expectedBuffer[c] = true
	}
	assert.Equal(t, expectedBuffer, coordSet(grid, isNoPlace))
	assert.Equal(t, ShipOf(PatrolBoat), grid[5][5])
	assert.Equal(t, 5, grid.CountShipSquares())
}

func TestTryPlace_Rejects(t *testing.T) {
	occupied := func() ShipGrid {
		grid := NewShipGrid(6, 6)
		require.True(t, TryPlace(grid, Submarine, Coord{Row: 1, Col: 2}, Vertical))
		return grid
	}

	tests := []struct {
		name    string
		grid    ShipGrid
		kind    ShipKind
		topLeft Coord
		o       Orientation
	}{
		{"horizontal past right edge", NewShipGrid(6, 6), Carrier, Coord{0, 2}, Horizontal},
		{"vertical past bottom edge", NewShipGrid(6, 6), Carrier, Coord{2, 0}, Vertical},
		{"row outside board", NewShipGrid(6, 6), PatrolBoat, Coord{6, 0}, Horizontal},
		{"negative column", NewShipGrid(6, 6), PatrolBoat, Coord{0, -1}, Horizontal},
		{"overlaps ship", occupied(), PatrolBoat, Coord{2, 2}, Vertical},
		{"starts on buffer", occupied(), PatrolBoat, Coord{0, 1}, Horizontal},
		{"crosses buffer", occupied(), Destroyer, Coord{4, 0}, Horizontal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.grid.Clone()
			assert.False(t, CanPlace(tt.grid, tt.kind, tt.topLeft, tt.o))
			assert.False(t, TryPlace(tt.grid, tt.kind, tt.topLeft, tt.o))
			assert.Equal(t, before, tt.grid, "grid must not change on rejected placement")
		})
	}
}

func TestTryPlace_FitsExactlyAtEdge(t *testing.T) {
	grid := NewShipGrid(6, 6)
	assert.True(t, TryPlace(grid, Carrier, Coord{Row: 5, Col: 1}, Horizontal))
	// Row 4 is the buffer of the first carrier
	assert.False(t, TryPlace(grid, Carrier, Coord{Row: 0, Col: 5}, Vertical))

	grid = NewShipGrid(5, 5)
	assert.True(t, TryPlace(grid, Carrier, Coord{Row: 0, Col: 4}, Vertical))
	assert.Equal(t, 5, grid.CountShipSquares())
}

func TestTryPlace_InvalidKindPanics(t *testing.T) {
	grid := NewShipGrid(6, 6)
	assert.Panics(t, func() {
		TryPlace(grid, ShipKind(42), Coord{}, Horizontal)
	})
}

// checkFleet verifies that the grid holds exactly the roster's ships as
// straight, non-touching segments.
func checkFleet(t *testing.T, grid ShipGrid, roster Roster) {
	t.Helper()

	seen := make(map[Coord]bool)
	found := make(map[ShipKind]int)
	for r, row := range grid {
		for c, sq := range row {
			start := Coord{Row: r, Col: c}
			if !sq.IsShip() || seen[start] {
				continue
			}

			// Flood fill orthogonally connected segments
			var component []Coord
			stack := []Coord{start}
			seen[start] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				component = append(component, cur)
				for _, d := range []Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					next := Coord{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
					if grid.Contains(next) && grid.At(next).IsShip() && !seen[next] {
						seen[next] = true
						stack = append(stack, next)
					}
				}
			}

			sameRow, sameCol := true, true
			for _, p := range component {
				require.Equal(t, sq.Ship, grid.At(p).Ship, "ship segments of different kinds touch")
				sameRow = sameRow && p.Row == start.Row
				sameCol = sameCol && p.Col == start.Col
			}
			require.True(t, sameRow || sameCol, "ship at %v is not straight", start)
			require.Len(t, component, sq.Ship.Length(), "ship at %v has wrong length", start)
			found[sq.Ship]++

			for _, p := range component {
				for _, d := range []Coord{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
					diag := Coord{Row: p.Row + d.Row, Col: p.Col + d.Col}
					if grid.Contains(diag) {
						require.False(t, grid.At(diag).IsShip(), "ships touch diagonally at %v", diag)
					}
				}
			}
		}
	}

	for _, entry := range roster {
		assert.Equal(t, entry.Count, found[entry.Kind], "count of %s", entry.Kind)
	}
}

func TestPlaceAllRandomly(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		roster Roster
	}{
		{"classic", DefaultBoardSize, DefaultRoster()},
		{"fleet", 20, Roster{
			{Kind: PatrolBoat, Count: 3},
			{Kind: Submarine, Count: 3},
			{Kind: Destroyer, Count: 2},
			{Kind: Battleship, Count: 1},
			{Kind: Carrier, Count: 1},
		}},
		{"small", 6, Roster{{Kind: PatrolBoat, Count: 2}, {Kind: Submarine, Count: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				grid := NewShipGrid(tt.size, tt.size)
				stats := PlaceAllRandomlyWithStats(grid, tt.roster, NewRand(seed))

				require.Equal(t, tt.roster.TotalCells(), grid.CountShipSquares())
				require.Equal(t, tt.roster.TotalShips(), stats.Ships)
				require.GreaterOrEqual(t, stats.Attempts, stats.Ships)
				require.Equal(t, tt.size*tt.size,
					grid.CountShipSquares()+CountSquareKind(grid, Water)+CountSquareKind(grid, WaterNoPlace))
				checkFleet(t, grid, tt.roster)
			}
		})
	}
}

func TestPlaceAllRandomly_Deterministic(t *testing.T) {
	first := NewShipGrid(DefaultBoardSize, DefaultBoardSize)
	second := NewShipGrid(DefaultBoardSize, DefaultBoardSize)

	PlaceAllRandomly(first, DefaultRoster(), NewRand(1234))
	PlaceAllRandomly(second, DefaultRoster(), NewRand(1234))

	assert.Equal(t, first, second)
}

func TestPlaceAllRandomlyContext(t *testing.T) {
	t.Run("matches uncapped placement", func(t *testing.T) {
		want := NewShipGrid(DefaultBoardSize, DefaultBoardSize)
		wantStats := PlaceAllRandomlyWithStats(want, DefaultRoster(), NewRand(77))

		got := NewShipGrid(DefaultBoardSize, DefaultBoardSize)
		stats, err := PlaceAllRandomlyContext(context.Background(), got, DefaultRoster(), NewRand(77))
		require.NoError(t, err)
		assert.Equal(t, wantStats, stats)
		assert.Equal(t, want, got)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		grid := NewShipGrid(6, 6)
		stats, err := PlaceAllRandomlyContext(ctx, grid, DefaultRoster(), NewRand(1))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Attempts)
		assert.Zero(t, grid.CountShipSquares())
	})

	t.Run("stops an impossible roster", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		grid := NewShipGrid(3, 3)
		stats, err := PlaceAllRandomlyContext(ctx, grid, Roster{{Kind: Submarine, Count: 3}}, NewRand(1))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, stats.Ships, 3)
		assert.Greater(t, stats.Attempts, stats.Ships)
	})
}

func TestShipGridClone(t *testing.T) {
	grid := NewShipGrid(3, 3)
	clone := grid.Clone()
	clone[1][1] = ShipOf(Carrier)

	assert.Equal(t, Water, grid[1][1].Kind)
	assert.True(t, clone[1][1].IsShip())
}

func TestShotGridCount(t *testing.T) {
	shots := NewShotGrid(3, 3)
	shots[0][0] = WaterShot
	shots[0][1] = ShipShot
	shots[2][2] = Marked

	assert.Equal(t, 1, shots.Count(WaterShot))
	assert.Equal(t, 1, shots.Count(ShipShot))
	assert.Equal(t, 6, shots.Count(NoShot))
	assert.InDelta(t, 0.5, Accuracy(shots), 1e-9)
	assert.Zero(t, Accuracy(NewShotGrid(2, 2)))
}
