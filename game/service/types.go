package service

import (
	"time"

	"github.com/gridlock-game/gridlock/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	Outcome   string            `json:"outcome"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message,omitempty"`

	// Events are the derived events (spawns, despawns, level
	// transitions) that resolved as a consequence of this move.
	Events []engine.Event `json:"events,omitempty"`

	From engine.Position `json:"from"`
	To   engine.Position `json:"to"`

	// Decision aids
	PossibleMoves []string `json:"possible_moves,omitempty"`
	LevelFinished bool     `json:"level_finished,omitempty"`
	PlayerAlive   bool     `json:"player_alive"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []engine.Event    `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_edge|blocked_object|movement_blocked|invalid_direction|player_destroyed|level_finished
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	PossibleMoves []string `json:"possible_moves,omitempty"`
	PlayerAlive   bool     `json:"player_alive"`
	Message       string   `json:"message,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx     int             `json:"idx"`
	Dir     string          `json:"dir"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Outcome string          `json:"outcome"`
	Success bool            `json:"success"`
}

// TickResult contains the result of advancing the simulation clock
type TickResult struct {
	GameState *engine.GameState `json:"game_state"`
	Events    []engine.Event    `json:"events"`
	ElapsedMs int               `json:"elapsed_ms"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	LevelCount  int    `json:"level_count"`
	StartLevel  uint16 `json:"start_level"`
}
