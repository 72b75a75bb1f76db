package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/render"
	"github.com/wricardo/battleship/game/service"
)

const (
	ServerName    = "Battleship"
	ServerVersion = "1.0.0"
)

var errMissingArgument = errors.New("missing argument")

// Server exposes a GameService as MCP tools
type Server struct {
	service   service.GameService
	renderer  *render.Renderer
	logger    *log.Logger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by svc
func NewServer(svc service.GameService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		service:  svc,
		renderer: render.New(false),
		logger:   logger.WithPrefix("mcp"),
	}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleship - MCP Interface

Two players each hide a fleet on a square board and take turns shooting at
the opponent's board. A ship sinks when all of its cells are hit. The first
player to sink the whole enemy fleet wins.

COORDINATES:
Cells are addressed by 0-based row and col, or by a two-letter coord with the
row letter first: "BD" is row 1, col 3.

AVAILABLE TOOLS:
- create_match: Start a match from a preset (optional seed for reproducible fleets)
- list_matches: List matches in progress
- get_match: Match summary (players, ships alive, whose turn)
- player_view: One player's own fleet and shot board
- shoot: Fire at the opponent's board (must be your turn)
- mark: Mark a suspected cell on your shot board (does not use a turn)
- shot_history: Shots fired so far, paginated
- delete_match: Remove a match
- list_configs: List available presets
- game_rules: Board size and fleet of a preset

`+legend()),
	)

	s.registerTools()
}

// legend describes the board glyphs the tools print
func legend() string {
	return fmt.Sprintf("SHOT BOARD LEGEND: %c unknown, %c marked, %c miss, %c hit.\n"+
		"SHIP BOARD LEGEND: P S D B C ship letters, %c hit ship cell, %c water.",
		render.ShotSymbol(engine.NoShot),
		render.ShotSymbol(engine.Marked),
		render.ShotSymbol(engine.WaterShot),
		render.ShotSymbol(engine.ShipShot),
		render.ShipSymbol(engine.DeadShipOf(engine.Submarine)),
		render.ShipSymbol(engine.Square{}),
	)
}

var matchIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Match ID returned by create_match",
}

var playerProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Player number, 1 or 2",
	"enum":        []int{1, 2},
}

func cellProperties() map[string]interface{} {
	return map[string]interface{}{
		"match_id": matchIDProperty,
		"player":   playerProperty,
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Row of the target cell (0-based)",
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Column of the target cell (0-based)",
		},
		"coord": map[string]interface{}{
			"type":        "string",
			"description": "Target cell as two letters, row first (e.g. 'BD'). Used instead of row/col",
		},
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Match management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_match",
		Description: "Create a new match with both fleets placed randomly",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (e.g., 'classic', 'skirmish'). Defaults to classic",
				},
				"player1": map[string]interface{}{
					"type":        "string",
					"description": "Display name of player 1",
				},
				"player2": map[string]interface{}{
					"type":        "string",
					"description": "Display name of player 2",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for reproducible ship placement",
				},
			},
		},
	}, s.handleCreateMatch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_matches",
		Description: "List all matches in progress",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListMatches)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_match",
		Description: "Get the summary of a match",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"match_id": matchIDProperty},
			Required:   []string{"match_id"},
		},
	}, s.handleGetMatch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_match",
		Description: "Delete a match",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"match_id": matchIDProperty},
			Required:   []string{"match_id"},
		},
	}, s.handleDeleteMatch)

	// Play
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "player_view",
		Description: "Show one player's fleet and shot board. The opponent's fleet is revealed once the match is won",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty,
				"player":   playerProperty,
			},
			Required: []string{"match_id", "player"},
		},
	}, s.handlePlayerView)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "shoot",
		Description: "Fire at a cell of the opponent's board. Give either row and col, or coord",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"match_id", "player"},
		},
	}, s.handleShoot)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "mark",
		Description: "Mark an unknown cell on your shot board as a suspected ship. Does not use a turn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"match_id", "player"},
		},
	}, s.handleMark)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get the shots of a match with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default: 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Shots per page (default: 20, max: 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Sort order: 'asc' or 'desc' (default: desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"match_id"},
		},
	}, s.handleShotHistory)

	// Configuration
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available match presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Describe the board size and fleet of a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Preset to describe (default: classic)",
				},
			},
		},
	}, s.handleGameRules)
}

// MCPServer returns the underlying MCP server for serving
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio", "tools", 10)
	return server.ServeStdio(s.mcpServer)
}

// toolError converts a service error into a tool result error
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Debug("tool failed", "tool", tool, "err", err)
	return mcp.NewToolResultError(err.Error())
}

// Argument helpers

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// intArg reads an integer argument. JSON numbers arrive as float64; numeric
// strings are accepted too.
func intArg(args map[string]any, key string) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be an integer, got %T", key, raw)
	}
}

func matchIDArg(args map[string]any) (string, error) {
	id := stringArg(args, "match_id")
	if id == "" {
		return "", fmt.Errorf("%w: match_id", errMissingArgument)
	}
	return id, nil
}

func playerArg(args map[string]any) (engine.PlayerID, error) {
	n, ok, err := intArg(args, "player")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: player", errMissingArgument)
	}
	p := engine.PlayerID(n)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %d (use 1 or 2)", engine.ErrInvalidPlayer, n)
	}
	return p, nil
}

// cellArg reads the target cell from coord, or from row and col
func cellArg(args map[string]any) (engine.Coord, error) {
	if coord := stringArg(args, "coord"); coord != "" {
		return render.ParseCoord(coord)
	}

	row, hasRow, err := intArg(args, "row")
	if err != nil {
		return engine.Coord{}, err
	}
	col, hasCol, err := intArg(args, "col")
	if err != nil {
		return engine.Coord{}, err
	}
	if !hasRow || !hasCol {
		return engine.Coord{}, fmt.Errorf("%w: give row and col, or coord", errMissingArgument)
	}
	return engine.Coord{Row: row, Col: col}, nil
}

// Tool handlers

func (s *Server) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := service.CreateMatchRequest{
		ConfigName: stringArg(args, "config_name"),
		Player1:    stringArg(args, "player1"),
		Player2:    stringArg(args, "player2"),
	}
	seed, ok, err := intArg(args, "seed")
	if err != nil {
		return s.toolError("create_match", err), nil
	}
	if ok {
		v := int64(seed)
		req.Seed = &v
	}

	info, err := s.service.CreateMatch(ctx, req)
	if err != nil {
		return s.toolError("create_match", err), nil
	}

	result := fmt.Sprintf("Created match: %s\nConfig: %s\n", info.ID, info.ConfigID) + formatSessionInfo(info)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matches, err := s.service.ListMatches(ctx)
	if err != nil {
		return s.toolError("list_matches", err), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matches in progress. Use create_match to start one.\n"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matches (%d):\n", len(matches))
	for _, m := range matches {
		status := "next: " + m.NextShooter.String()
		if m.Winner != engine.WinnerNone {
			status = "winner: " + m.Winner.String()
		}
		fmt.Fprintf(&b, "- %s [%s] %s vs %s, %d shots, %s\n",
			m.ID, m.ConfigID, m.Player1.Name, m.Player2.Name, m.TotalShots, status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := matchIDArg(request.GetArguments())
	if err != nil {
		return s.toolError("get_match", err), nil
	}

	info, err := s.service.GetMatch(ctx, id)
	if err != nil {
		return s.toolError("get_match", err), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleDeleteMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := matchIDArg(request.GetArguments())
	if err != nil {
		return s.toolError("delete_match", err), nil
	}

	if err := s.service.DeleteMatch(ctx, id); err != nil {
		return s.toolError("delete_match", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted match: %s\n", id)), nil
}

func (s *Server) handlePlayerView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, err := matchIDArg(args)
	if err != nil {
		return s.toolError("player_view", err), nil
	}
	player, err := playerArg(args)
	if err != nil {
		return s.toolError("player_view", err), nil
	}

	view, err := s.service.PlayerView(ctx, id, player)
	if err != nil {
		return s.toolError("player_view", err), nil
	}
	return mcp.NewToolResultText(s.formatPlayerView(view)), nil
}

func (s *Server) handleShoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, err := matchIDArg(args)
	if err != nil {
		return s.toolError("shoot", err), nil
	}
	player, err := playerArg(args)
	if err != nil {
		return s.toolError("shoot", err), nil
	}
	target, err := cellArg(args)
	if err != nil {
		return s.toolError("shoot", err), nil
	}

	result, err := s.service.Shoot(ctx, id, player, target.Row, target.Col)
	if err != nil {
		return s.toolError("shoot", err), nil
	}
	return mcp.NewToolResultText(formatShotResult(result)), nil
}

func (s *Server) handleMark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, err := matchIDArg(args)
	if err != nil {
		return s.toolError("mark", err), nil
	}
	player, err := playerArg(args)
	if err != nil {
		return s.toolError("mark", err), nil
	}
	target, err := cellArg(args)
	if err != nil {
		return s.toolError("mark", err), nil
	}

	view, err := s.service.Mark(ctx, id, player, target.Row, target.Col)
	if err != nil {
		return s.toolError("mark", err), nil
	}

	result := fmt.Sprintf("Marked %s\n\n", render.FormatCoord(target.Row, target.Col)) +
		s.renderer.ShotBoard(view.Shots)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, err := matchIDArg(args)
	if err != nil {
		return s.toolError("shot_history", err), nil
	}

	opts := service.HistoryOptions{Order: stringArg(args, "order")}
	if opts.Page, _, err = intArg(args, "page"); err != nil {
		return s.toolError("shot_history", err), nil
	}
	if opts.Limit, _, err = intArg(args, "limit"); err != nil {
		return s.toolError("shot_history", err), nil
	}

	history, err := s.service.History(ctx, id, opts)
	if err != nil {
		return s.toolError("shot_history", err), nil
	}
	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return s.toolError("list_configs", err), nil
	}

	var b strings.Builder
	b.WriteString("Available presets:\n")
	for _, c := range configs {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d ships, %s)\n", c.ConfigID, c.Name, c.BoardSize, c.BoardSize, c.ShipCount, c.Format)
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules, err := s.service.Rules(ctx, stringArg(request.GetArguments(), "config_name"))
	if err != nil {
		return s.toolError("game_rules", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Preset: %s (%s)\n", rules.Name, rules.ConfigID)
	if rules.Description != "" {
		b.WriteString(rules.Description + "\n")
	}
	b.WriteString(s.renderer.GameInfo(rules.BoardSize, rules.Roster()))
	fmt.Fprintf(&b, "\tShip cells: %d\n", rules.ShipCells)
	if rules.ExtraShotOnHit {
		b.WriteString("\tA hit earns another shot.\n")
	} else {
		b.WriteString("\tTurns alternate after every shot.\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match %s (%dx%d board)\n", info.ID, info.BoardSize, info.BoardSize)
	for _, p := range []struct {
		id      engine.PlayerID
		summary service.PlayerSummary
	}{{engine.Player1, info.Player1}, {engine.Player2, info.Player2}} {
		fmt.Fprintf(&b, "  Player %d %s: %d ships alive, %d shots fired\n",
			int(p.id), p.summary.Name, p.summary.ShipsAlive, p.summary.ShotsFired)
	}
	if winner, ok := info.Winner.Player(); ok {
		fmt.Fprintf(&b, "Winner: player %d\n", int(winner))
	} else {
		fmt.Fprintf(&b, "Next shooter: player %d\n", int(info.NextShooter))
	}
	return b.String()
}

func formatShotResult(r *service.ShotResult) string {
	var b strings.Builder
	b.WriteString(r.Message + "\n")
	fmt.Fprintf(&b, "Opponent ships alive: %d\n", r.ShipsAlive)
	if winner, ok := r.Winner.Player(); ok {
		fmt.Fprintf(&b, "Match over, player %d wins.\n", int(winner))
	} else if r.NextShooter == r.Attacker {
		fmt.Fprintf(&b, "Player %d shoots again.\n", int(r.Attacker))
	} else {
		fmt.Fprintf(&b, "Next shooter: player %d\n", int(r.NextShooter))
	}
	return b.String()
}

func (s *Server) formatPlayerView(v *service.PlayerView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player %d %s vs %s\n", int(v.Player), v.Name, v.OpponentName)
	fmt.Fprintf(&b, "Ships alive: %d, opponent ships alive: %d\n", v.ShipsAlive, v.OpponentShipsAlive)
	fmt.Fprintf(&b, "Shots fired: %d, accuracy: %.0f%%\n", v.ShotsFired, v.Accuracy*100)
	if winner, ok := v.Winner.Player(); ok {
		fmt.Fprintf(&b, "Winner: player %d\n", int(winner))
	} else {
		fmt.Fprintf(&b, "Next shooter: player %d\n", int(v.NextShooter))
	}

	b.WriteString("\nYour fleet:\n")
	b.WriteString(s.renderer.ShipBoard(v.Ships))
	for _, kind := range engine.ShipKinds {
		if d, ok := v.Damage[kind]; ok {
			fmt.Fprintf(&b, "\t%s: %d of %d segments hit\n", render.ShipName(kind), d.Hit, d.Total)
		}
	}
	b.WriteString("\nYour shots:\n")
	b.WriteString(s.renderer.ShotBoard(v.Shots))
	if v.OpponentShips != nil {
		b.WriteString("\nOpponent fleet:\n")
		b.WriteString(s.renderer.ShipBoard(v.OpponentShips))
	}
	return b.String()
}

func formatHistory(h *service.HistoryResponse) string {
	if h.TotalShots == 0 {
		return "No shots fired yet.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shot history (page %d of %d, %d shots):\n", h.Page, h.TotalPages, h.TotalShots)
	for _, shot := range h.Shots {
		outcome := "miss"
		if shot.Sunk {
			outcome = "hit, sunk " + render.ShipName(shot.Result.Ship)
		} else if shot.Hit {
			outcome = "hit"
		}
		fmt.Fprintf(&b, "%3d. player %d -> %s: %s\n",
			shot.Number, int(shot.Attacker), render.FormatCoord(shot.Target.Row, shot.Target.Col), outcome)
	}
	if h.HasNext {
		fmt.Fprintf(&b, "More shots on page %d.\n", h.Page+1)
	}
	return b.String()
}
