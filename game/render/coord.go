package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/battleship/game/engine"
)

// ErrInvalidCommand is returned for input that is not a coordinate command
var ErrInvalidCommand = errors.New("invalid command")

// Command is one line of player input: a shot, or a mark when Mark is set
type Command struct {
	Target engine.Coord
	Mark   bool
}

// FormatCoord renders (row, col) as two letters, row first: (1, 3) is "BD"
func FormatCoord(row, col int) string {
	if row < 0 || col < 0 || row >= engine.MaxBoardSize || col >= engine.MaxBoardSize {
		return fmt.Sprintf("(%d,%d)", row, col)
	}
	return string([]byte{byte('A' + row), byte('A' + col)})
}

// ParseCoord parses a two-letter coordinate such as "BD" or "bd"
func ParseCoord(input string) (engine.Coord, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if len(s) != 2 || !isLetter(s[0]) || !isLetter(s[1]) {
		return engine.Coord{}, fmt.Errorf("%w: %q is not two letters", ErrInvalidCommand, input)
	}
	return engine.Coord{Row: int(s[0] - 'A'), Col: int(s[1] - 'A')}, nil
}

// ParseCommand parses "BD" as a shot and "BD+" as a mark. It does not check
// the coordinate against a board; the match does that.
func ParseCommand(input string) (Command, error) {
	s := strings.TrimSpace(input)
	mark := strings.HasSuffix(s, "+")
	if mark {
		s = strings.TrimSuffix(s, "+")
	}

	target, err := ParseCoord(s)
	if err != nil {
		return Command{}, fmt.Errorf("%w: expected a coordinate like 'BD' or 'BD+', got %q", ErrInvalidCommand, input)
	}
	return Command{Target: target, Mark: mark}, nil
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
