package engine

import "errors"

var (
	// ErrOutOfBounds is returned when a coordinate lies outside the board
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidShipKind is returned when looking up an unknown ship kind
	ErrInvalidShipKind = errors.New("invalid ship kind")
	// ErrInvalidPlayer is returned for a player id other than Player1 or Player2
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrInvalidConfig wraps every match configuration validation failure
	ErrInvalidConfig = errors.New("invalid match configuration")
)
