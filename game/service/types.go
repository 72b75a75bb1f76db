package service

import (
	"time"

	"github.com/wricardo/battleship/game/engine"
)

// CreateMatchRequest describes a new match
type CreateMatchRequest struct {
	ConfigName string `json:"config_name,omitempty"`
	Player1    string `json:"player1,omitempty"`
	Player2    string `json:"player2,omitempty"`
	// Seed makes ship placement reproducible; nil draws a fresh seed
	Seed *int64 `json:"seed,omitempty"`
}

// SessionInfo provides information about a match session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigID       string              `json:"config_id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Player1        PlayerSummary       `json:"player1"`
	Player2        PlayerSummary       `json:"player2"`
	BoardSize      int                 `json:"board_size"`
	NextShooter    engine.PlayerID     `json:"next_shooter"`
	Winner         engine.Winner       `json:"winner"`
	TotalShots     int                 `json:"total_shots"`
	GameConfig     *engine.MatchConfig `json:"game_config"`
}

// PlayerSummary is the public state of one player
type PlayerSummary struct {
	Name       string `json:"name"`
	ShipsAlive int    `json:"ships_alive"`
	ShotsFired int    `json:"shots_fired"`
}

// ShotResult contains the result of a shot
type ShotResult struct {
	MatchID  string          `json:"match_id"`
	Attacker engine.PlayerID `json:"attacker"`
	Target   engine.Coord    `json:"target"`
	// Square is the defender's square before the shot
	Square engine.Square `json:"square"`
	Hit    bool          `json:"hit"`
	Sunk   bool          `json:"sunk"`
	// Repeat is set when the attacker had already resolved this cell
	Repeat      bool            `json:"repeat,omitempty"`
	Winner      engine.Winner   `json:"winner"`
	NextShooter engine.PlayerID `json:"next_shooter"`
	// ShipsAlive is the defender's remaining ship count
	ShipsAlive int    `json:"ships_alive"`
	Message    string `json:"message"`
}

// PlayerView is everything one player is allowed to see
type PlayerView struct {
	MatchID            string           `json:"match_id"`
	Player             engine.PlayerID  `json:"player"`
	Name               string           `json:"name"`
	OpponentName       string           `json:"opponent_name"`
	BoardSize          int              `json:"board_size"`
	Ships              engine.ShipGrid  `json:"ships"`
	Shots              engine.ShotGrid  `json:"shots"`
	ShipsAlive         int              `json:"ships_alive"`
	OpponentShipsAlive int              `json:"opponent_ships_alive"`
	ShotsFired         int              `json:"shots_fired"`
	Accuracy           float64          `json:"accuracy"`
	NextShooter        engine.PlayerID  `json:"next_shooter"`
	Winner             engine.Winner    `json:"winner"`
	// Damage tallies hit segments of the player's own fleet per ship kind
	Damage map[engine.ShipKind]engine.SegmentCount `json:"damage"`
	// OpponentShips is only revealed once the match has a winner
	OpponentShips engine.ShipGrid `json:"opponent_ships,omitempty"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []engine.ShotRecord `json:"shots"`
	TotalShots  int                 `json:"total_shots"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a match preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for match creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Format      string `json:"format"` // "json" or "hcl"
	BoardSize   int    `json:"board_size"`
	ShipCount   int    `json:"ship_count"`
}

// RulesInfo describes the board and fleet of a preset
type RulesInfo struct {
	ConfigID       string     `json:"config_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BoardSize      int        `json:"board_size"`
	ShipCount      int        `json:"ship_count"`
	ShipCells      int        `json:"ship_cells"`
	Ships          []ShipRule `json:"ships"`
	ExtraShotOnHit bool       `json:"extra_shot_on_hit"`
}

// ShipRule is one roster line of RulesInfo
type ShipRule struct {
	Kind   engine.ShipKind `json:"kind"`
	Length int             `json:"length"`
	Count  int             `json:"count"`
}

// Roster rebuilds the fleet roster from the rule lines
func (r *RulesInfo) Roster() engine.Roster {
	roster := make(engine.Roster, 0, len(r.Ships))
	for _, ship := range r.Ships {
		roster = append(roster, engine.RosterEntry{Kind: ship.Kind, Count: ship.Count})
	}
	return roster
}
