package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/battleship/game/engine"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"BD", Command{Target: engine.Coord{Row: 1, Col: 3}}},
		{"bd", Command{Target: engine.Coord{Row: 1, Col: 3}}},
		{"  AA\n", Command{Target: engine.Coord{Row: 0, Col: 0}}},
		{"BD+", Command{Target: engine.Coord{Row: 1, Col: 3}, Mark: true}},
		{"zz+", Command{Target: engine.Coord{Row: 25, Col: 25}, Mark: true}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	for _, input := range []string{"", "B", "BDE", "B1", "12", "+", "BD++", "B D"} {
		_, err := ParseCommand(input)
		assert.ErrorIs(t, err, ErrInvalidCommand, "input %q", input)
	}
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "BD", FormatCoord(1, 3))
	assert.Equal(t, "AZ", FormatCoord(0, 25))
	assert.Equal(t, "(26,0)", FormatCoord(26, 0))

	c, err := ParseCoord(FormatCoord(7, 2))
	require.NoError(t, err)
	assert.Equal(t, engine.Coord{Row: 7, Col: 2}, c)
}

func TestShipBoard(t *testing.T) {
	grid := engine.NewShipGrid(4, 4)
	require.True(t, engine.TryPlace(grid, engine.PatrolBoat, engine.Coord{Row: 1, Col: 1}, engine.Horizontal))
	grid[1][2].Hit = true

	want := strings.Join([]string{
		"   A B C D",
		"  ________",
		"A| _ _ _ _",
		"B| _ P x _",
		"C| _ _ _ _",
		"D| _ _ _ _",
		"",
	}, "\n")
	assert.Equal(t, want, New(false).ShipBoard(grid))
}

func TestShotBoard(t *testing.T) {
	shots := engine.NewShotGrid(3, 3)
	shots[0][0] = engine.Marked
	shots[1][1] = engine.WaterShot
	shots[2][2] = engine.ShipShot

	want := strings.Join([]string{
		"   A B C",
		"  ______",
		"A| o _ _",
		"B| _ O _",
		"C| _ _ X",
		"",
	}, "\n")
	assert.Equal(t, want, New(false).ShotBoard(shots))
}

func TestStyledBoardKeepsSymbols(t *testing.T) {
	shots := engine.NewShotGrid(2, 2)
	shots[0][1] = engine.ShipShot

	out := New(true).ShotBoard(shots)
	assert.Contains(t, out, "X")
	assert.Contains(t, out, "A")
}

func TestSymbols(t *testing.T) {
	symbols := map[engine.ShipKind]byte{
		engine.PatrolBoat: 'P',
		engine.Submarine:  'S',
		engine.Destroyer:  'D',
		engine.Battleship: 'B',
		engine.Carrier:    'C',
	}
	for kind, want := range symbols {
		assert.Equal(t, want, ShipSymbol(engine.ShipOf(kind)))
		assert.Equal(t, byte('x'), ShipSymbol(engine.DeadShipOf(kind)))
	}
	assert.Equal(t, byte('_'), ShipSymbol(engine.Square{Kind: engine.WaterNoPlace}))
	assert.Equal(t, byte('_'), ShotSymbol(engine.NoShot))
}

func TestGameInfo(t *testing.T) {
	out := New(false).GameInfo(11, engine.DefaultRoster())

	assert.Contains(t, out, "Game info:")
	assert.Contains(t, out, "Board size: 11x11")
	assert.Contains(t, out, "Number of ships: 5")
	assert.Contains(t, out, "Patrol Boat: count 1; length 2")
	assert.Contains(t, out, "Carrier: count 1; length 5")
}
