// Package engine provides the core rules of a two-player Battleship game.
//
// The engine package implements:
//   - Ship and shot grids for each player
//   - Random fleet placement with a one-cell gap between ships
//   - Shot resolution and sunk-ship detection
//   - Winner detection
//   - Match configuration validation
//
// Core Types:
//
// Match owns both players' grids and resolves shots. MatchConfig describes
// the board size and ship roster and is loaded from JSON or HCL presets.
// Square and ShotMark are the cell values of ship and shot grids.
//
// Usage:
//
//	config := engine.DefaultMatchConfig()
//	match, err := engine.NewMatch(config, "Alice", "Bob", engine.NewRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	square, err := match.MakeShot(engine.Player1, 3, 4)
//	if errors.Is(err, engine.ErrOutOfBounds) {
//		// ask again
//	}
//	if match.Winner() != engine.WinnerNone {
//		// game over
//	}
//
// Game Rules:
//
// Ships are straight lines placed horizontally or vertically and never touch,
// not even diagonally. A ship sinks on the shot that hits its last intact
// segment. A player wins when every ship of the opponent has sunk. The engine
// does not track turns; the driver decides who shoots next.
package engine
