// Package mcp serves Battleship matches as Model Context Protocol tools.
//
// A Server wraps a service.GameService and registers one tool per match
// operation:
//   - create_match, list_matches, get_match, delete_match
//   - player_view, shoot, mark, shot_history
//   - list_configs, game_rules
//
// Cells are addressed either by 0-based "row" and "col" arguments or by a
// two-letter "coord" such as "BD" (row B, column D). Players are numbered
// 1 and 2. Every failure, including an out-of-turn shot, comes back as a
// tool result with IsError set so agents can read the reason and retry.
//
// Usage:
//
//	srv := mcp.NewServer(gameService, logger)
//	if err := srv.ServeStdio(); err != nil {
//		logger.Fatal("mcp server stopped", "err", err)
//	}
package mcp
