package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/render"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *log.Logger
}

// NewGameService creates a new game service instance. A nil logger uses the
// package default logger.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *log.Logger) GameService {
	if logger == nil {
		logger = log.Default()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.WithPrefix("service"),
	}
}

// getConfigID returns the config_id for a given display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// resolveConfig loads a preset by id, or the default preset for an empty id
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.MatchConfig, string, error) {
	if configName == "" {
		config := s.configs.GetDefault()
		return config, s.getConfigID(config.Name), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		availableConfigs, listErr := s.configs.ListConfigs()
		if listErr == nil && len(availableConfigs) > 0 {
			var configIDs []string
			for _, cfg := range availableConfigs {
				configIDs = append(configIDs, cfg.ConfigID)
			}
			if !slices.Contains(configIDs, configName) {
				return nil, "", fmt.Errorf("config '%s' not found, available configs %v: %w", configName, configIDs, err)
			}
		}
		return nil, "", fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	return config, configName, nil
}

// session fetches a session and records the access
func (s *gameServiceImpl) session(matchID string) (*Session, error) {
	sess, err := s.sessions.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.logger.Warn("failed to update last access", "match_id", sess.ID, "err", err)
	}
	return sess, nil
}

// CreateMatch places both fleets and registers a new match session
func (s *gameServiceImpl) CreateMatch(ctx context.Context, req CreateMatchRequest) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, configID, err := s.resolveConfig(req.ConfigName)
	if err != nil {
		return nil, err
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed, err = engine.NewSeed()
		if err != nil {
			return nil, err
		}
	}

	match, err := engine.NewMatch(config, req.Player1, req.Player2, engine.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	sess, err := s.sessions.Create("", match, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()
	sess.ConfigID = configID

	s.logger.Info("match created",
		"match_id", sess.ID,
		"config", configID,
		"player1", match.Name(engine.Player1),
		"player2", match.Name(engine.Player2))
	s.logger.Debug("match seed", "match_id", sess.ID, "seed", seed)

	return sessionInfo(sess), nil
}

// GetMatch retrieves match session information
func (s *gameServiceImpl) GetMatch(ctx context.Context, matchID string) (*SessionInfo, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// ListMatches returns all active matches
func (s *gameServiceImpl) ListMatches(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, sessionInfo(sess))
		sess.Unlock()
	}

	slices.SortFunc(result, func(a, b *SessionInfo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// DeleteMatch removes a match session
func (s *gameServiceImpl) DeleteMatch(ctx context.Context, matchID string) error {
	if err := s.sessions.Delete(matchID); err != nil {
		return fmt.Errorf("match %s: %w", matchID, err)
	}
	s.logger.Info("match deleted", "match_id", matchID)
	return nil
}

// Shoot fires attacker's shot at (row, col) of the opponent's board and
// advances the turn
func (s *gameServiceImpl) Shoot(ctx context.Context, matchID string, attacker engine.PlayerID, row, col int) (*ShotResult, error) {
	if !attacker.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidPlayer, int(attacker))
	}

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	match := sess.Match
	if match.Winner() != engine.WinnerNone {
		return nil, fmt.Errorf("%w: %s won", ErrMatchFinished, match.Winner())
	}
	if attacker != sess.NextShooter {
		return nil, fmt.Errorf("%w: %s is next", ErrNotYourTurn, match.Name(sess.NextShooter))
	}

	previous := match.ShotAt(attacker, row, col)
	square, err := match.MakeShot(attacker, row, col)
	if err != nil {
		return nil, err
	}
	record, _ := match.LastShot()
	defender := attacker.Opponent()

	result := &ShotResult{
		MatchID:    sess.ID,
		Attacker:   attacker,
		Target:     engine.Coord{Row: row, Col: col},
		Square:     square,
		Hit:        record.Hit,
		Sunk:       record.Sunk,
		Repeat:     previous == engine.WaterShot || previous == engine.ShipShot,
		Winner:     match.Winner(),
		ShipsAlive: match.ShipsAlive(defender),
	}

	if result.Winner == engine.WinnerNone && !(result.Hit && sess.Config.ExtraShotOnHit) {
		sess.NextShooter = defender
	}
	result.NextShooter = sess.NextShooter
	result.Message = shotMessage(match, result)

	s.logger.Debug("shot",
		"match_id", sess.ID,
		"attacker", attacker,
		"target", render.FormatCoord(row, col),
		"hit", result.Hit,
		"sunk", result.Sunk)
	if winner, ok := result.Winner.Player(); ok {
		s.logger.Info("match won", "match_id", sess.ID, "winner", match.Name(winner), "shots", len(match.History()))
	}

	return result, nil
}

func shotMessage(match *engine.Match, r *ShotResult) string {
	target := render.FormatCoord(r.Target.Row, r.Target.Col)
	defender := match.Name(r.Attacker.Opponent())

	var msg string
	switch {
	case r.Repeat && !r.Hit:
		msg = fmt.Sprintf("%s was already shot", target)
	case r.Sunk:
		msg = fmt.Sprintf("Hit at %s! %s's %s is sunk", target, defender, render.ShipName(r.Square.Ship))
	case r.Hit:
		msg = fmt.Sprintf("Hit at %s!", target)
	default:
		msg = fmt.Sprintf("Miss at %s", target)
	}

	if winner, ok := r.Winner.Player(); ok {
		return fmt.Sprintf("%s. %s wins!", msg, match.Name(winner))
	}
	return fmt.Sprintf("%s. %s to shoot", msg, match.Name(r.NextShooter))
}

// Mark annotates a cell of the player's shot grid. It does not use a turn.
func (s *gameServiceImpl) Mark(ctx context.Context, matchID string, player engine.PlayerID, row, col int) (*PlayerView, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Match.Mark(player, row, col); err != nil {
		return nil, err
	}
	return playerView(sess, player), nil
}

// PlayerView returns what one player may see of the match
func (s *gameServiceImpl) PlayerView(ctx context.Context, matchID string, player engine.PlayerID) (*PlayerView, error) {
	if !player.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidPlayer, int(player))
	}

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return playerView(sess, player), nil
}

// History retrieves the match's shot history with pagination
func (s *gameServiceImpl) History(ctx context.Context, matchID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := sess.Match.History()
	sess.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var shots []engine.ShotRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			shots = append(shots, history[i])
		}
	} else if start < total {
		shots = history[start:end]
	}

	if shots == nil {
		shots = []engine.ShotRecord{}
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns all available match presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific match preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a match preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// Rules describes the board and fleet of a preset, or of the default preset
// for an empty name
func (s *gameServiceImpl) Rules(ctx context.Context, configName string) (*RulesInfo, error) {
	config, configID, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	ships := make([]ShipRule, 0, len(config.Ships))
	for _, entry := range config.Ships {
		ships = append(ships, ShipRule{Kind: entry.Kind, Length: entry.Length(), Count: entry.Count})
	}

	return &RulesInfo{
		ConfigID:       configID,
		Name:           config.Name,
		Description:    config.Description,
		BoardSize:      config.BoardSize,
		ShipCount:      config.TotalShips(),
		ShipCells:      config.Ships.TotalCells(),
		Ships:          ships,
		ExtraShotOnHit: config.ExtraShotOnHit,
	}, nil
}

// sessionInfo snapshots a session. The caller holds the session lock.
func sessionInfo(sess *Session) *SessionInfo {
	match := sess.Match
	summary := func(p engine.PlayerID) PlayerSummary {
		return PlayerSummary{
			Name:       match.Name(p),
			ShipsAlive: match.ShipsAlive(p),
			ShotsFired: match.ShotsFired(p),
		}
	}

	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		ConfigName:     sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Player1:        summary(engine.Player1),
		Player2:        summary(engine.Player2),
		BoardSize:      match.BoardSize(),
		NextShooter:    sess.NextShooter,
		Winner:         match.Winner(),
		TotalShots:     len(match.History()),
		GameConfig:     sess.Config,
	}
}

// playerView builds the view of one player. The caller holds the session lock.
func playerView(sess *Session, player engine.PlayerID) *PlayerView {
	match := sess.Match
	opponent := player.Opponent()
	shots := match.ShotGrid(player)
	ships := match.ShipGrid(player)

	view := &PlayerView{
		MatchID:            sess.ID,
		Player:             player,
		Name:               match.Name(player),
		OpponentName:       match.Name(opponent),
		BoardSize:          match.BoardSize(),
		Ships:              ships,
		Shots:              shots,
		ShipsAlive:         match.ShipsAlive(player),
		OpponentShipsAlive: match.ShipsAlive(opponent),
		ShotsFired:         match.ShotsFired(player),
		Accuracy:           engine.Accuracy(shots),
		NextShooter:        sess.NextShooter,
		Winner:             match.Winner(),
		Damage:             engine.CountSegments(ships),
	}
	if view.Winner != engine.WinnerNone {
		view.OpponentShips = match.ShipGrid(opponent)
	}
	return view
}
