package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/battleship/game/engine"
)

// Styles holds the lipgloss styles used for board output
type Styles struct {
	Header lipgloss.Style
	Axis   lipgloss.Style
	Ship   lipgloss.Style
	Hit    lipgloss.Style
	Miss   lipgloss.Style
	Mark   lipgloss.Style
	Water  lipgloss.Style
}

// NewStyles creates the default colored styles
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Axis: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Ship: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Hit: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Miss: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Mark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Water: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3C5A78")),
	}
}

// Renderer draws boards as lettered character art. A Renderer without
// styles emits plain text.
type Renderer struct {
	styles *Styles
	plain  bool
}

// New creates a renderer; styled enables lipgloss colors
func New(styled bool) *Renderer {
	return &Renderer{styles: NewStyles(), plain: !styled}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.plain {
		return s
	}
	return style.Render(s)
}

// ShipSymbol returns the board character for a ship-grid square
func ShipSymbol(sq engine.Square) byte {
	if !sq.IsShip() {
		return '_'
	}
	if sq.Hit {
		return 'x'
	}
	switch sq.Ship {
	case engine.PatrolBoat:
		return 'P'
	case engine.Submarine:
		return 'S'
	case engine.Destroyer:
		return 'D'
	case engine.Battleship:
		return 'B'
	case engine.Carrier:
		return 'C'
	default:
		return '?'
	}
}

// ShotSymbol returns the board character for a shot-grid mark
func ShotSymbol(mark engine.ShotMark) byte {
	switch mark {
	case engine.Marked:
		return 'o'
	case engine.WaterShot:
		return 'O'
	case engine.ShipShot:
		return 'X'
	default:
		return '_'
	}
}

// ShipName returns the display name of a ship kind
func ShipName(kind engine.ShipKind) string {
	switch kind {
	case engine.PatrolBoat:
		return "Patrol Boat"
	case engine.Submarine:
		return "Submarine"
	case engine.Destroyer:
		return "Destroyer"
	case engine.Battleship:
		return "Battleship"
	case engine.Carrier:
		return "Carrier"
	default:
		return kind.String()
	}
}

// ShipBoard renders a player's own board
func (r *Renderer) ShipBoard(grid engine.ShipGrid) string {
	return r.board(grid.Rows(), grid.Cols(), func(row, col int) string {
		sq := grid[row][col]
		symbol := string(ShipSymbol(sq))
		switch {
		case sq.IsLiveShip():
			return r.paint(r.styles.Ship, symbol)
		case sq.IsShip():
			return r.paint(r.styles.Hit, symbol)
		default:
			return r.paint(r.styles.Water, symbol)
		}
	})
}

// ShotBoard renders a player's record of shots at the opponent
func (r *Renderer) ShotBoard(grid engine.ShotGrid) string {
	cols := 0
	if len(grid) > 0 {
		cols = len(grid[0])
	}
	return r.board(len(grid), cols, func(row, col int) string {
		mark := grid[row][col]
		symbol := string(ShotSymbol(mark))
		switch mark {
		case engine.ShipShot:
			return r.paint(r.styles.Hit, symbol)
		case engine.WaterShot:
			return r.paint(r.styles.Miss, symbol)
		case engine.Marked:
			return r.paint(r.styles.Mark, symbol)
		default:
			return r.paint(r.styles.Water, symbol)
		}
	})
}

// board lays out cells under letter axes:
//
//	   A B C
//	  ______
//	A| _ P _
func (r *Renderer) board(rows, cols int, cell func(row, col int) string) string {
	axis := func(s string) string { return r.paint(r.styles.Axis, s) }

	var b strings.Builder
	letters := make([]string, cols)
	for c := range letters {
		letters[c] = string(rune('A' + c))
	}
	b.WriteString("   " + axis(strings.Join(letters, " ")) + "\n")
	b.WriteString("  " + axis(strings.Repeat("__", cols)) + "\n")

	for row := 0; row < rows; row++ {
		cells := make([]string, cols)
		for col := range cells {
			cells[col] = cell(row, col)
		}
		b.WriteString(axis(string(rune('A'+row))+"|") + " " + strings.Join(cells, " ") + "\n")
	}
	return b.String()
}

// Title renders a section heading
func (r *Renderer) Title(s string) string {
	return r.paint(r.styles.Header, s)
}

// GameInfo renders the board size and fleet of a match
func (r *Renderer) GameInfo(boardSize int, roster engine.Roster) string {
	var b strings.Builder
	b.WriteString(r.Title("Game info:") + "\n")
	fmt.Fprintf(&b, "\tBoard size: %dx%d\n", boardSize, boardSize)
	fmt.Fprintf(&b, "\tNumber of ships: %d\n", roster.TotalShips())
	b.WriteString("\tShip types in the game:\n")
	for _, entry := range roster {
		fmt.Fprintf(&b, "\t\t%s: count %d; length %d\n", ShipName(entry.Kind), entry.Count, entry.Length())
	}
	return b.String()
}
