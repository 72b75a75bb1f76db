package engine

import (
	"fmt"
	rand "math/rand/v2"
)

// PlayerState is everything the engine tracks for one player
type PlayerState struct {
	name       string
	shipsAlive int
	ships      ShipGrid
	shots      ShotGrid
}

// Match holds both players and the match-wide rules. It is not safe for
// concurrent use; callers serialize access.
type Match struct {
	boardSize  int
	roster     Roster
	totalShips int
	players    [2]*PlayerState
	history    []ShotRecord
}

// NewMatch creates a match and places both fleets using rng
func NewMatch(config *MatchConfig, player1, player2 string, rng *rand.Rand) (*Match, error) {
	if err := ValidateMatchConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		rng = NewRand(seed)
	}

	size := config.BoardSize
	grids := [2]ShipGrid{NewShipGrid(size, size), NewShipGrid(size, size)}
	for _, grid := range grids {
		PlaceAllRandomly(grid, config.Ships, rng)
	}

	return newMatch(config, player1, player2, grids), nil
}

// NewMatchFromGrids creates a match from fleets that are already placed.
// Each player starts with the roster's ship count alive, so the grids must
// hold exactly the roster's ships.
func NewMatchFromGrids(config *MatchConfig, player1, player2 string, grid1, grid2 ShipGrid) (*Match, error) {
	if err := ValidateMatchConfig(config); err != nil {
		return nil, err
	}

	size := config.BoardSize
	for i, grid := range []ShipGrid{grid1, grid2} {
		if grid.Rows() != size || grid.Cols() != size {
			return nil, fmt.Errorf("%w: grid %d is %dx%d, expected %dx%d",
				ErrInvalidConfig, i+1, grid.Rows(), grid.Cols(), size, size)
		}
	}

	return newMatch(config, player1, player2, [2]ShipGrid{grid1.Clone(), grid2.Clone()}), nil
}

func newMatch(config *MatchConfig, player1, player2 string, grids [2]ShipGrid) *Match {
	defaultP1, defaultP2 := config.PlayerNames()
	if player1 == "" {
		player1 = defaultP1
	}
	if player2 == "" {
		player2 = defaultP2
	}

	size := config.BoardSize
	total := config.TotalShips()
	m := &Match{
		boardSize:  size,
		roster:     config.Ships.Clone(),
		totalShips: total,
	}
	for i, name := range []string{player1, player2} {
		m.players[i] = &PlayerState{
			name:       name,
			shipsAlive: total,
			ships:      grids[i],
			shots:      NewShotGrid(size, size),
		}
	}
	return m
}

// IsValidCoord reports whether (row, col) lies on the board
func (m *Match) IsValidCoord(row, col int) bool {
	return row >= 0 && col >= 0 && row < m.boardSize && col < m.boardSize
}

func (m *Match) checkCoord(row, col int) error {
	if !m.IsValidCoord(row, col) {
		return fmt.Errorf("%w: (%d, %d) is outside the %dx%d board", ErrOutOfBounds, row, col, m.boardSize, m.boardSize)
	}
	return nil
}

func (m *Match) player(p PlayerID) (*PlayerState, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, int(p))
	}
	return m.players[p.index()], nil
}

// MakeShot resolves attacker's shot at (row, col) on the opponent's board and
// returns the square that was there before the shot.
//
// A hit on a live segment records ShipShot for the attacker. Walking from
// the target in each orthogonal direction across already hit segments, if
// no live segment is reached the hit sinks one of the defender's ships. Anything else records WaterShot on a cell the
// attacker had not shot yet. Shooting an already resolved cell is allowed.
func (m *Match) MakeShot(attacker PlayerID, row, col int) (Square, error) {
	atk, err := m.player(attacker)
	if err != nil {
		return Square{}, err
	}
	if err := m.checkCoord(row, col); err != nil {
		return Square{}, err
	}
	def := m.players[attacker.Opponent().index()]

	square := def.ships[row][col]
	record := ShotRecord{
		Number:   len(m.history) + 1,
		Attacker: attacker,
		Target:   Coord{Row: row, Col: col},
		Result:   square,
	}

	if square.IsLiveShip() {
		atk.shots[row][col] = ShipShot
		if !isShipAlive(def.ships, row, col) {
			def.shipsAlive--
			record.Sunk = true
		}
		def.ships[row][col].Hit = true
		record.Hit = true
	} else if atk.shots[row][col] == NoShot {
		atk.shots[row][col] = WaterShot
	}

	m.history = append(m.history, record)
	return square, nil
}

// isShipAlive reports whether the ship through (row, col) still has a live
// segment other than the cell itself. It walks the four orthogonal
// directions across contiguous ship squares, hit or not. Ships are straight
// and never touch, so each walk stays on the same ship.
func isShipAlive(grid ShipGrid, row, col int) bool {
	for _, d := range [...]Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r, c := row+d.Row, col+d.Col
		for r >= 0 && c >= 0 && r < grid.Rows() && c < grid.Cols() && grid[r][c].IsShip() {
			if !grid[r][c].Hit {
				return true
			}
			r, c = r+d.Row, c+d.Col
		}
	}
	return false
}

// Mark annotates a cell of the player's shot grid if it has no shot yet
func (m *Match) Mark(player PlayerID, row, col int) error {
	p, err := m.player(player)
	if err != nil {
		return err
	}
	if err := m.checkCoord(row, col); err != nil {
		return err
	}

	if p.shots[row][col] == NoShot {
		p.shots[row][col] = Marked
	}
	return nil
}

// Winner returns the current winner. Player1 wins once Player2 has no ships
// left and vice versa; Player1 takes precedence if both fleets are gone.
func (m *Match) Winner() Winner {
	if m.players[Player2.index()].shipsAlive == 0 {
		return WinnerPlayer1
	}
	if m.players[Player1.index()].shipsAlive == 0 {
		return WinnerPlayer2
	}
	return WinnerNone
}

// BoardSize returns the side length of the square boards
func (m *Match) BoardSize() int {
	return m.boardSize
}

// Roster returns a copy of the ship roster
func (m *Match) Roster() Roster {
	return m.roster.Clone()
}

// ShipCount returns the number of ships each player started with
func (m *Match) ShipCount() int {
	return m.totalShips
}

// Name returns the player's display name
func (m *Match) Name(p PlayerID) string {
	if !p.Valid() {
		return ""
	}
	return m.players[p.index()].name
}

// ShipsAlive returns how many of the player's ships are still afloat
func (m *Match) ShipsAlive(p PlayerID) int {
	if !p.Valid() {
		return 0
	}
	return m.players[p.index()].shipsAlive
}

// ShipGrid returns a copy of the player's own board
func (m *Match) ShipGrid(p PlayerID) ShipGrid {
	if !p.Valid() {
		return nil
	}
	return m.players[p.index()].ships.Clone()
}

// ShotGrid returns a copy of the player's shot record
func (m *Match) ShotGrid(p PlayerID) ShotGrid {
	if !p.Valid() {
		return nil
	}
	return m.players[p.index()].shots.Clone()
}

// History returns every resolved shot in order
func (m *Match) History() []ShotRecord {
	return append([]ShotRecord(nil), m.history...)
}

// ShotsFired returns the number of shots the player has made
func (m *Match) ShotsFired(p PlayerID) int {
	n := 0
	for _, rec := range m.history {
		if rec.Attacker == p {
			n++
		}
	}
	return n
}

// ShotAt returns the player's shot mark at (row, col), or NoShot off the board
func (m *Match) ShotAt(p PlayerID, row, col int) ShotMark {
	if !p.Valid() || !m.IsValidCoord(row, col) {
		return NoShot
	}
	return m.players[p.index()].shots[row][col]
}

// LastShot returns the most recent shot, if any
func (m *Match) LastShot() (ShotRecord, bool) {
	if len(m.history) == 0 {
		return ShotRecord{}, false
	}
	return m.history[len(m.history)-1], true
}
