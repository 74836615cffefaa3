package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gridlock-game/gridlock/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
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

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate an ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session. The move's immediate
// reactions (paint, teleporters, hazards, level transitions) are settled
// with a zero-duration tick so the returned state and events already
// reflect them; the periodic timers are not advanced.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []engine.Event{}
	if reset {
		sess.Engine.Reset()
	}

	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("invalid direction %q: must be one of up, down, left, right", direction)
	}

	prevLevel := sess.Engine.CurrentLevel()
	from := engine.Position{}
	if player := sess.Engine.GetState().PlayerObject(); player != nil {
		from = player.Position
	}

	moveErr := sess.Engine.MovePlayer(dir)
	events = append(events, sess.Engine.Tick(0)...)

	state := sess.Engine.GetState()
	to := from
	if player := state.PlayerObject(); player != nil {
		to = player.Position
	}

	outcome := "success"
	if moveErr != nil {
		outcome = moveErr.Error()
	}

	result := &MoveResult{
		Success:     moveErr == nil,
		Outcome:     outcome,
		GameState:   state,
		Events:      events,
		From:        from,
		To:          to,
		PlayerAlive: state.PlayerObject() != nil,
	}

	if moveErr == nil {
		result.Message = fmt.Sprintf("Moved %s to (%d,%d)", dir, to.X, to.Y)
	} else {
		result.Message = fmt.Sprintf("Move %s failed: %s", dir, outcome)
	}
	if state.FinishedLevels[prevLevel] && sess.Engine.CurrentLevel() != prevLevel {
		result.LevelFinished = true
		result.Message = fmt.Sprintf("Level %d finished!", prevLevel)
	}
	for _, d := range sess.Engine.PossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, strings.ToLower(string(d)))
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after move: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		sess.Engine.Reset()
	}

	state := sess.Engine.GetState()
	startPos := engine.Position{}
	if player := state.PlayerObject(); player != nil {
		startPos = player.Position
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]engine.Event, 0),
		Success:        true,
		StartPos:       startPos,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		player := sess.Engine.GetState().PlayerObject()
		if player == nil {
			result.StoppedReason = "player destroyed"
			result.StopReasonCode = "player_destroyed"
			result.StoppedOnMove = i + 1
			result.Success = false
			break
		}

		dir, ok := engine.ParseDirection(move)
		if !ok {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d invalid: %s", i+1, move)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		prevLevel := sess.Engine.CurrentLevel()
		from := player.Position
		moveErr := sess.Engine.MovePlayer(dir)
		result.Events = append(result.Events, sess.Engine.Tick(0)...)

		to := from
		if player := sess.Engine.GetState().PlayerObject(); player != nil {
			to = player.Position
		}

		step := StepInfo{
			Idx:     i + 1,
			Dir:     strings.ToLower(move),
			From:    from,
			To:      to,
			Success: moveErr == nil,
			Outcome: "success",
		}
		if moveErr != nil {
			step.Outcome = moveErr.Error()
		}
		result.Steps = append(result.Steps, step)

		if moveErr != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.StoppedOnMove = i + 1
			switch {
			case errors.Is(moveErr, engine.ErrEdgeCollision):
				result.StopReasonCode = "blocked_edge"
			case errors.Is(moveErr, engine.ErrObjectCollision):
				result.StopReasonCode = "blocked_object"
			case errors.Is(moveErr, engine.ErrMovementBlocked):
				result.StopReasonCode = "movement_blocked"
			}
			break
		}

		result.MovesExecuted++

		// A finished level interrupts the sequence: the remaining moves
		// were planned against a level that no longer exists.
		if sess.Engine.CurrentLevel() != prevLevel {
			result.StoppedReason = fmt.Sprintf("level %d finished", prevLevel)
			result.StopReasonCode = "level_finished"
			result.StoppedOnMove = i + 1
			break
		}
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.PlayerAlive = endState.PlayerObject() != nil
	if player := endState.PlayerObject(); player != nil {
		result.EndPos = player.Position
	}
	for _, d := range sess.Engine.PossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, strings.ToLower(string(d)))
	}

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk moves: %v\n", sessionID, err)
	}

	return result, nil
}

// Tick advances a session's simulation clock, running the periodic
// behaviors (forced movement, autonomous movers, volatile expiry).
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, elapsedMs int) (*TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if elapsedMs <= 0 {
		elapsedMs = engine.DefaultMovementIntervalMs
	}

	events := sess.Engine.Tick(time.Duration(elapsedMs) * time.Millisecond)

	return &TickResult{
		GameState: sess.Engine.GetState(),
		Events:    events,
		ElapsedMs: elapsedMs,
	}, nil
}

// Reset resets a game session to the start level
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
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

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		if start < total {
			moves = history[start:end]
		}
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
