package engine

import "fmt"

const (
	// MinBoardSize is the smallest playable board
	MinBoardSize = 2
	// MaxBoardSize is bounded by single-letter coordinates A..Z
	MaxBoardSize = 26

	DefaultBoardSize   = 11
	DefaultPlayer1Name = "Player 1"
	DefaultPlayer2Name = "Player 2"
)

// MatchConfig represents a match preset loaded from JSON or HCL
type MatchConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	Ships       Roster `json:"ships"`
	Player1Name string `json:"player1_name,omitempty"`
	Player2Name string `json:"player2_name,omitempty"`
	// ExtraShotOnHit lets a player shoot again after a hit. The engine ignores
	// it; turn order belongs to the driver.
	ExtraShotOnHit bool `json:"extra_shot_on_hit,omitempty"`
}

// DefaultMatchConfig returns the classic 11x11 game with one ship of each kind
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Name:        "classic",
		Description: "Classic 11x11 board with one ship of every kind",
		BoardSize:   DefaultBoardSize,
		Ships:       DefaultRoster(),
		Player1Name: DefaultPlayer1Name,
		Player2Name: DefaultPlayer2Name,
	}
}

// ValidateMatchConfig validates a match configuration for correctness.
// A roster that passes can still be too dense to place in practice; see
// PlaceAllRandomly.
func ValidateMatchConfig(config *MatchConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("%w: board_size must be between %d and %d, got %d",
			ErrInvalidConfig, MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	if len(config.Ships) == 0 {
		return fmt.Errorf("%w: ships must list at least one ship kind", ErrInvalidConfig)
	}

	seen := make(map[ShipKind]bool, len(config.Ships))
	for i, entry := range config.Ships {
		length, err := LookupShipLength(entry.Kind)
		if err != nil {
			return fmt.Errorf("%w: ships[%d]: %v", ErrInvalidConfig, i, err)
		}
		if seen[entry.Kind] {
			return fmt.Errorf("%w: ships[%d]: %s listed more than once", ErrInvalidConfig, i, entry.Kind)
		}
		seen[entry.Kind] = true

		if entry.Count < 1 {
			return fmt.Errorf("%w: ships[%d]: count for %s must be at least 1, got %d",
				ErrInvalidConfig, i, entry.Kind, entry.Count)
		}
		if length > config.BoardSize {
			return fmt.Errorf("%w: ships[%d]: %s has length %d but the board is only %d wide",
				ErrInvalidConfig, i, entry.Kind, length, config.BoardSize)
		}
	}

	if cells := config.Ships.TotalCells(); cells > config.BoardSize*config.BoardSize {
		return fmt.Errorf("%w: ships occupy %d cells but the board only has %d",
			ErrInvalidConfig, cells, config.BoardSize*config.BoardSize)
	}

	return nil
}

// TotalShips returns the number of ships each player starts with
func (c *MatchConfig) TotalShips() int {
	return c.Ships.TotalShips()
}

// PlayerNames returns the configured display names, falling back to defaults
func (c *MatchConfig) PlayerNames() (string, string) {
	p1, p2 := c.Player1Name, c.Player2Name
	if p1 == "" {
		p1 = DefaultPlayer1Name
	}
	if p2 == "" {
		p2 = DefaultPlayer2Name
	}
	return p1, p2
}
