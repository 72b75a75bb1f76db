// Package service provides the match driver layer for Battleship.
//
// The service package implements:
//   - Multi-match session management
//   - Turn order on top of the turn-agnostic engine
//   - Player views that hide the opponent's fleet until the match ends
//   - Paginated shot history
//   - Preset lookup and rules summaries
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level match
// operations. SessionManager stores sessions. ConfigManager loads presets.
//
// Architecture:
//
// The service layer sits between the transports (console, MCP) and the
// engine. Each session owns one engine.Match and a lock that serializes
// every operation on it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs", logger)
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateMatch(ctx, service.CreateMatchRequest{ConfigName: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Shoot(ctx, info.ID, engine.Player1, 1, 3)
//	if errors.Is(err, service.ErrNotYourTurn) {
//		// wait for the opponent
//	}
//
// Turns:
//
// Player1 shoots first. The turn passes to the opponent after every shot,
// including repeats of an already resolved cell. When the preset sets
// extra_shot_on_hit, a hit keeps the turn. Marks never use a turn.
package service
