package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submarineConfig() *MatchConfig {
	return &MatchConfig{
		Name:      "duel",
		BoardSize: 6,
		Ships:     Roster{{Kind: Submarine, Count: 1}},
	}
}

// newSubmarineMatch puts Player2's submarine horizontally at (1,2) and
// Player1's vertically at (3,0).
func newSubmarineMatch(t *testing.T) *Match {
	t.Helper()

	grid1 := NewShipGrid(6, 6)
	require.True(t, TryPlace(grid1, Submarine, Coord{Row: 3, Col: 0}, Vertical))
	grid2 := NewShipGrid(6, 6)
	require.True(t, TryPlace(grid2, Submarine, Coord{Row: 1, Col: 2}, Horizontal))

	match, err := NewMatchFromGrids(submarineConfig(), "Alice", "Bob", grid1, grid2)
	require.NoError(t, err)
	return match
}

func TestMakeShot_SinksOnLastSegment(t *testing.T) {
	match := newSubmarineMatch(t)

	sq, err := match.MakeShot(Player1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, ShipOf(Submarine), sq)
	assert.Equal(t, 1, match.ShipsAlive(Player2))
	assert.Equal(t, WinnerNone, match.Winner())

	_, err = match.MakeShot(Player1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, match.ShipsAlive(Player2))
	assert.Equal(t, WinnerNone, match.Winner())

	_, err = match.MakeShot(Player1, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, match.ShipsAlive(Player2))
	assert.Equal(t, WinnerPlayer1, match.Winner())
	assert.Equal(t, WinnerPlayer1, match.Winner(), "winner is stable without further shots")

	shots := match.ShotGrid(Player1)
	for col := 2; col <= 4; col++ {
		assert.Equal(t, ShipShot, shots[1][col])
	}
	ships := match.ShipGrid(Player2)
	for col := 2; col <= 4; col++ {
		assert.Equal(t, DeadShipOf(Submarine), ships[1][col])
	}
}

func TestMakeShot_MiddleThenEnds(t *testing.T) {
	match := newSubmarineMatch(t)

	for _, c := range []Coord{{1, 3}, {1, 2}} {
		_, err := match.MakeShot(Player1, c.Row, c.Col)
		require.NoError(t, err)
		assert.Equal(t, 1, match.ShipsAlive(Player2), "after shot at %v", c)
	}

	_, err := match.MakeShot(Player1, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, match.ShipsAlive(Player2))

	history := match.History()
	require.Len(t, history, 3)
	assert.False(t, history[0].Sunk)
	assert.False(t, history[1].Sunk)
	assert.True(t, history[2].Sunk)
}

func TestMakeShot_IsolatedSegmentSinksImmediately(t *testing.T) {
	config := &MatchConfig{Name: "single", BoardSize: 4, Ships: Roster{{Kind: PatrolBoat, Count: 1}}}
	grid1 := NewShipGrid(4, 4)
	grid1[0][0] = ShipOf(PatrolBoat)
	grid2 := NewShipGrid(4, 4)
	grid2[2][2] = ShipOf(PatrolBoat)

	match, err := NewMatchFromGrids(config, "", "", grid1, grid2)
	require.NoError(t, err)

	_, err = match.MakeShot(Player1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, match.ShipsAlive(Player2))
	assert.Equal(t, 1, match.ShipsAlive(Player1))
	assert.Equal(t, WinnerPlayer1, match.Winner())
}

func TestMakeShot_WaterIsIdempotent(t *testing.T) {
	match := newSubmarineMatch(t)

	sq, err := match.MakeShot(Player1, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, Water, sq.Kind)
	first := match.ShotGrid(Player1)
	assert.Equal(t, WaterShot, first[5][5])

	_, err = match.MakeShot(Player1, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, first, match.ShotGrid(Player1))

	sq, err = match.MakeShot(Player1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, WaterNoPlace, sq.Kind, "buffer cells are water to the shooter")
	assert.Equal(t, WaterShot, match.ShotGrid(Player1)[0][2])
}

func TestMakeShot_ReshootHitSegment(t *testing.T) {
	match := newSubmarineMatch(t)

	_, err := match.MakeShot(Player1, 1, 2)
	require.NoError(t, err)

	sq, err := match.MakeShot(Player1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, DeadShipOf(Submarine), sq)
	assert.Equal(t, ShipShot, match.ShotGrid(Player1)[1][2])
	assert.Equal(t, 1, match.ShipsAlive(Player2))

	history := match.History()
	require.Len(t, history, 2)
	assert.True(t, history[0].Hit)
	assert.False(t, history[1].Hit)
}

func TestMark(t *testing.T) {
	match := newSubmarineMatch(t)

	require.NoError(t, match.Mark(Player1, 0, 0))
	require.NoError(t, match.Mark(Player1, 1, 3))
	assert.Equal(t, Marked, match.ShotGrid(Player1)[0][0])
	assert.Equal(t, NoShot, match.ShotGrid(Player2)[0][0], "marks only touch the marking player's grid")

	// Water shots leave annotations alone; hits overwrite them
	_, err := match.MakeShot(Player1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Marked, match.ShotGrid(Player1)[0][0])

	_, err = match.MakeShot(Player1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, ShipShot, match.ShotGrid(Player1)[1][3])

	require.NoError(t, match.Mark(Player1, 1, 3))
	assert.Equal(t, ShipShot, match.ShotGrid(Player1)[1][3], "mark never overwrites a shot")
	assert.Empty(t, filterHistory(match.History(), Player2))
}

func filterHistory(records []ShotRecord, attacker PlayerID) []ShotRecord {
	var out []ShotRecord
	for _, rec := range records {
		if rec.Attacker == attacker {
			out = append(out, rec)
		}
	}
	return out
}

func TestOutOfBounds(t *testing.T) {
	coords := []Coord{{6, 0}, {0, 6}, {-1, 0}, {0, -1}, {6, 6}}

	for _, c := range coords {
		match := newSubmarineMatch(t)
		before1, before2 := match.ShotGrid(Player1), match.ShipGrid(Player2)

		_, err := match.MakeShot(Player1, c.Row, c.Col)
		assert.ErrorIs(t, err, ErrOutOfBounds, "shot at %v", c)
		err = match.Mark(Player1, c.Row, c.Col)
		assert.ErrorIs(t, err, ErrOutOfBounds, "mark at %v", c)
		assert.False(t, match.IsValidCoord(c.Row, c.Col))

		assert.Equal(t, before1, match.ShotGrid(Player1))
		assert.Equal(t, before2, match.ShipGrid(Player2))
		assert.Empty(t, match.History())
	}
}

func TestInvalidPlayer(t *testing.T) {
	match := newSubmarineMatch(t)

	_, err := match.MakeShot(PlayerID(3), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
	assert.ErrorIs(t, match.Mark(PlayerID(0), 0, 0), ErrInvalidPlayer)
	assert.Nil(t, match.ShipGrid(PlayerID(0)))
	assert.Empty(t, match.Name(PlayerID(9)))
}

func TestWinner_Player1Precedence(t *testing.T) {
	config := &MatchConfig{Name: "single", BoardSize: 4, Ships: Roster{{Kind: PatrolBoat, Count: 1}}}
	grid1 := NewShipGrid(4, 4)
	grid1[3][3] = ShipOf(PatrolBoat)
	grid2 := NewShipGrid(4, 4)
	grid2[0][0] = ShipOf(PatrolBoat)

	match, err := NewMatchFromGrids(config, "", "", grid1, grid2)
	require.NoError(t, err)

	_, err = match.MakeShot(Player2, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, WinnerPlayer2, match.Winner())

	// The engine does not stop play; both fleets gone resolves to Player1
	_, err = match.MakeShot(Player1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, match.ShipsAlive(Player1))
	assert.Equal(t, 0, match.ShipsAlive(Player2))
	assert.Equal(t, WinnerPlayer1, match.Winner())
}

func TestNewMatch(t *testing.T) {
	config := DefaultMatchConfig()

	first, err := NewMatch(config, "Alice", "", NewRand(7))
	require.NoError(t, err)
	second, err := NewMatch(config, "Alice", "", NewRand(7))
	require.NoError(t, err)

	assert.Equal(t, first.ShipGrid(Player1), second.ShipGrid(Player1))
	assert.Equal(t, first.ShipGrid(Player2), second.ShipGrid(Player2))
	assert.Equal(t, "Alice", first.Name(Player1))
	assert.Equal(t, DefaultPlayer2Name, first.Name(Player2))
	assert.Equal(t, DefaultBoardSize, first.BoardSize())
	assert.Equal(t, 5, first.ShipCount())
	assert.Equal(t, 5, first.ShipsAlive(Player1))
	assert.Equal(t, 5, first.ShipsAlive(Player2))
	assert.Equal(t, config.Ships.TotalCells(), first.ShipGrid(Player1).CountShipSquares())
	assert.Equal(t, WinnerNone, first.Winner())

	unseeded, err := NewMatch(config, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Ships.TotalCells(), unseeded.ShipGrid(Player2).CountShipSquares())
}

func TestNewMatch_InvalidConfig(t *testing.T) {
	_, err := NewMatch(&MatchConfig{Name: "bad", BoardSize: 1}, "", "", NewRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMatchFromGrids(submarineConfig(), "", "", NewShipGrid(5, 5), NewShipGrid(6, 6))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMatchAccessorsReturnCopies(t *testing.T) {
	match := newSubmarineMatch(t)

	ships := match.ShipGrid(Player2)
	ships[1][2] = Square{Kind: Water}
	shots := match.ShotGrid(Player1)
	shots[0][0] = ShipShot
	roster := match.Roster()
	roster[0].Count = 9

	assert.Equal(t, ShipOf(Submarine), match.ShipGrid(Player2)[1][2])
	assert.Equal(t, NoShot, match.ShotGrid(Player1)[0][0])
	assert.Equal(t, 1, match.Roster()[0].Count)
}

func TestHistoryAndShotsFired(t *testing.T) {
	match := newSubmarineMatch(t)

	_, err := match.MakeShot(Player1, 1, 2)
	require.NoError(t, err)
	_, err = match.MakeShot(Player2, 0, 5)
	require.NoError(t, err)
	_, err = match.MakeShot(Player1, 2, 2)
	require.NoError(t, err)

	history := match.History()
	require.Len(t, history, 3)
	assert.Equal(t, ShotRecord{
		Number:   1,
		Attacker: Player1,
		Target:   Coord{Row: 1, Col: 2},
		Result:   ShipOf(Submarine),
		Hit:      true,
	}, history[0])
	assert.Equal(t, 2, history[1].Number)
	assert.Equal(t, Player2, history[1].Attacker)
	assert.False(t, history[1].Hit)

	assert.Equal(t, 2, match.ShotsFired(Player1))
	assert.Equal(t, 1, match.ShotsFired(Player2))

	history[0].Number = 99
	assert.Equal(t, 1, match.History()[0].Number)
}

func TestCountSegments(t *testing.T) {
	match := newSubmarineMatch(t)
	_, err := match.MakeShot(Player1, 1, 3)
	require.NoError(t, err)

	grid := match.ShipGrid(Player2)
	counts := CountSegments(grid)
	assert.Equal(t, SegmentCount{Total: 3, Hit: 1}, counts[Submarine])
	assert.Equal(t, 2, counts[Submarine].Remaining())
	_, ok := counts[Carrier]
	assert.False(t, ok)
}

func TestErrorsWrapSentinels(t *testing.T) {
	match := newSubmarineMatch(t)
	_, err := match.MakeShot(Player1, 10, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Contains(t, err.Error(), "(10, 10)")
}

func TestShotAtAndLastShot(t *testing.T) {
	match := newSubmarineMatch(t)

	_, ok := match.LastShot()
	assert.False(t, ok)

	_, err := match.MakeShot(Player2, 4, 0)
	require.NoError(t, err)

	last, ok := match.LastShot()
	require.True(t, ok)
	assert.True(t, last.Hit)
	assert.Equal(t, Player2, last.Attacker)
	assert.Equal(t, ShipShot, match.ShotAt(Player2, 4, 0))
	assert.Equal(t, NoShot, match.ShotAt(Player1, 4, 0))
	assert.Equal(t, NoShot, match.ShotAt(Player2, 9, 9))
}
