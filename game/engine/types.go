package engine

import "fmt"

// SquareKind is the tag of a ship-grid square
type SquareKind uint8

const (
	// Water is open sea; ships may only be placed on Water
	Water SquareKind = iota
	// WaterNoPlace is water touching a placed ship (diagonals included)
	WaterNoPlace
	// ShipSquare is a segment of a ship, hit or not
	ShipSquare
)

// String returns the string representation of a square kind
func (k SquareKind) String() string {
	switch k {
	case Water:
		return "water"
	case WaterNoPlace:
		return "water_no_place"
	case ShipSquare:
		return "ship"
	default:
		return "unknown"
	}
}

// Square is one cell of a player's ship grid.
// Ship and Hit are only meaningful when Kind is ShipSquare.
type Square struct {
	Kind SquareKind `json:"kind"`
	Ship ShipKind   `json:"ship,omitempty"`
	Hit  bool       `json:"hit,omitempty"`
}

// ShipOf returns an intact ship segment of the given kind
func ShipOf(kind ShipKind) Square {
	return Square{Kind: ShipSquare, Ship: kind}
}

// DeadShipOf returns a hit ship segment of the given kind
func DeadShipOf(kind ShipKind) Square {
	return Square{Kind: ShipSquare, Ship: kind, Hit: true}
}

// IsShip reports whether the square holds a ship segment, hit or not
func (s Square) IsShip() bool {
	return s.Kind == ShipSquare
}

// IsLiveShip reports whether the square holds a ship segment that has not been shot
func (s Square) IsLiveShip() bool {
	return s.Kind == ShipSquare && !s.Hit
}

// String returns the string representation of a square
func (s Square) String() string {
	if s.Kind != ShipSquare {
		return s.Kind.String()
	}
	if s.Hit {
		return "dead_" + s.Ship.String()
	}
	return s.Ship.String()
}

// ShotMark is one cell of a player's shot grid, describing the opponent's board
type ShotMark uint8

const (
	NoShot ShotMark = iota
	// Marked is a player annotation, not a shot
	Marked
	WaterShot
	ShipShot
)

// String returns the string representation of a shot mark
func (m ShotMark) String() string {
	switch m {
	case NoShot:
		return "no_shot"
	case Marked:
		return "marked"
	case WaterShot:
		return "water_shot"
	case ShipShot:
		return "ship_shot"
	default:
		return "unknown"
	}
}

// MarshalText encodes the shot mark by name
func (m ShotMark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a shot mark name
func (m *ShotMark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "no_shot":
		*m = NoShot
	case "marked":
		*m = Marked
	case "water_shot":
		*m = WaterShot
	case "ship_shot":
		*m = ShipShot
	default:
		return fmt.Errorf("unknown shot mark %q", text)
	}
	return nil
}

// Orientation is the axis a ship extends along from its top-left cell
type Orientation uint8

const (
	// Horizontal ships extend along columns
	Horizontal Orientation = iota
	// Vertical ships extend along rows
	Vertical
)

// String returns the string representation of an orientation
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Coord is a 0-based row/column pair
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PlayerID identifies one of the two players of a match
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Valid reports whether p names one of the two players
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other player
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// String returns the string representation of a player id
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return fmt.Sprintf("player(%d)", int(p))
	}
}

func (p PlayerID) index() int {
	return int(p) - 1
}

// Winner is the outcome of a match at a point in time
type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer1
	WinnerPlayer2
)

// String returns the string representation of a winner
func (w Winner) String() string {
	switch w {
	case WinnerPlayer1:
		return "player1"
	case WinnerPlayer2:
		return "player2"
	default:
		return "none"
	}
}

// MarshalText encodes the winner by name
func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Player returns the winning player, or false while the match is in progress
func (w Winner) Player() (PlayerID, bool) {
	switch w {
	case WinnerPlayer1:
		return Player1, true
	case WinnerPlayer2:
		return Player2, true
	default:
		return 0, false
	}
}

// ShotRecord is one resolved shot in a match's history
type ShotRecord struct {
	Number   int      `json:"number"`
	Attacker PlayerID `json:"attacker"`
	Target   Coord    `json:"target"`
	Result   Square   `json:"result"`
	Hit      bool     `json:"hit"`
	Sunk     bool     `json:"sunk"`
}
