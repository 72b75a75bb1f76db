package engine

import "fmt"

// ShipKind is one of the fixed vessel categories
type ShipKind uint8

const (
	PatrolBoat ShipKind = iota + 1
	Submarine
	Destroyer
	Battleship
	Carrier
)

// ShipKinds lists every kind in roster order
var ShipKinds = []ShipKind{PatrolBoat, Submarine, Destroyer, Battleship, Carrier}

var shipLengths = map[ShipKind]int{
	PatrolBoat: 2,
	Submarine:  3,
	Destroyer:  3,
	Battleship: 4,
	Carrier:    5,
}

var shipNames = map[ShipKind]string{
	PatrolBoat: "patrol_boat",
	Submarine:  "submarine",
	Destroyer:  "destroyer",
	Battleship: "battleship",
	Carrier:    "carrier",
}

// LookupShipLength returns the length of a ship kind
func LookupShipLength(kind ShipKind) (int, error) {
	length, ok := shipLengths[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidShipKind, uint8(kind))
	}
	return length, nil
}

// Length returns the number of cells the ship occupies.
// It panics for kinds outside ShipKinds; rosters are validated before they reach the engine.
func (k ShipKind) Length() int {
	length, err := LookupShipLength(k)
	if err != nil {
		panic(err)
	}
	return length
}

// Valid reports whether k is a known ship kind
func (k ShipKind) Valid() bool {
	_, ok := shipLengths[k]
	return ok
}

// String returns the string representation of a ship kind
func (k ShipKind) String() string {
	if name, ok := shipNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ship(%d)", uint8(k))
}

// MarshalText encodes the ship kind by name
func (k ShipKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShipKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a ship kind name
func (k *ShipKind) UnmarshalText(text []byte) error {
	kind, err := ParseShipKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseShipKind maps a ship name such as "patrol_boat" to its kind
func ParseShipKind(name string) (ShipKind, error) {
	for kind, n := range shipNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidShipKind, name)
}

// RosterEntry is a ship kind and how many of it each player gets
type RosterEntry struct {
	Kind  ShipKind `json:"kind"`
	Count int      `json:"count"`
}

// Length returns the length of the entry's ship kind
func (e RosterEntry) Length() int {
	return e.Kind.Length()
}

// Roster is the full fleet of one player, placed in order
type Roster []RosterEntry

// DefaultRoster returns one ship of every kind
func DefaultRoster() Roster {
	roster := make(Roster, 0, len(ShipKinds))
	for _, kind := range ShipKinds {
		roster = append(roster, RosterEntry{Kind: kind, Count: 1})
	}
	return roster
}

// TotalShips returns the number of ships in the roster
func (r Roster) TotalShips() int {
	total := 0
	for _, entry := range r {
		total += entry.Count
	}
	return total
}

// TotalCells returns the number of grid cells the roster's ships occupy
func (r Roster) TotalCells() int {
	total := 0
	for _, entry := range r {
		total += entry.Count * entry.Length()
	}
	return total
}

// Footprint returns the number of cells the roster occupies when every ship
// is counted with its full one-cell buffer ring, ignoring board edges.
func (r Roster) Footprint() int {
	total := 0
	for _, entry := range r {
		total += entry.Count * (entry.Length() + 2) * 3
	}
	return total
}

// Clone returns an independent copy of the roster
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}
