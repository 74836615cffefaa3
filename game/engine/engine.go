package engine

import (
	"fmt"
	"log"
	"time"
)

// Engine provides the main interface for puzzle engine operations.
type Engine interface {
	// State management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	CurrentLevel() uint16
	LoadLevel(number uint16)

	// Player movement
	MovePlayer(direction Direction) error
	CanMovePlayer(direction Direction) bool
	PossibleMoves() []Direction

	// Simulation
	Tick(elapsed time.Duration) []Event
	Pause()
	Resume()
	IsPaused() bool

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Read access for rendering and the editor save routine
	ObjectsAt(p Position) []*Object
	SaveLevelText() string
}

// GameEngine implements the Engine interface.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	paused bool

	// savedLevels overlays the config's level texts with snapshots of
	// levels the player left through an entrance, so pushed blocks and
	// opened doors are still there on re-entry.
	savedLevels map[uint16]string

	movementTimer    ticker
	transporterTimer ticker
	volatileTimer    ticker
}

// NewEngine creates an engine from a validated configuration and loads
// its start level.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{config: config}
	e.initTimers()
	e.LoadLevel(config.StartLevel)
	return e, nil
}

// NewEngineWithDefaults creates an engine running only the built-in
// default level.
func NewEngineWithDefaults() *GameEngine {
	e := &GameEngine{
		config: &GameConfig{
			Name:   "default",
			Levels: map[uint16]string{0: DefaultLevel},
		},
	}
	e.initTimers()
	e.LoadLevel(0)
	return e
}

func (e *GameEngine) initTimers() {
	e.movementTimer = newTicker(time.Duration(e.config.movementIntervalMs())*time.Millisecond, true)
	e.transporterTimer = newTicker(time.Duration(e.config.transporterIntervalMs())*time.Millisecond, true)
	e.volatileTimer = newTicker(time.Duration(e.config.volatileDelayMs())*time.Millisecond, false)
	// Nothing volatile exists until a spawn arms the timer.
	e.volatileTimer.stop()
}

// GetState returns the current game state.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state; used when loading a persisted
// session.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// Reset reloads the start level from its pristine definition. The
// finished-levels set and cumulative move history survive a reset;
// saved level snapshots do not.
func (e *GameEngine) Reset() *GameState {
	e.savedLevels = nil
	e.LoadLevel(e.config.StartLevel)
	return e.state
}

// CurrentLevel returns the number of the loaded level.
func (e *GameEngine) CurrentLevel() uint16 {
	if e.state == nil {
		return 0
	}
	return e.state.CurrentLevel
}

// LoadLevel loads the given level, preferring a saved snapshot of it
// over the config text and falling back to the built-in default when
// the level is missing. Progress (finished levels, history) carries
// over; if the new level has an entrance leading back to the previous
// level, the player starts on it.
func (e *GameEngine) LoadLevel(number uint16) {
	raw, ok := e.savedLevels[number]
	if !ok {
		raw, ok = e.config.Levels[number]
	}
	if !ok {
		log.Printf("level %d not found, using default level", number)
		raw = DefaultLevel
	}

	level := LoadLevel(raw)
	state := NewGameState(level, number)

	if previous := e.state; previous != nil {
		state.FinishedLevels = previous.FinishedLevels
		state.PreviousLevel = previous.CurrentLevel
		state.MoveHistory = previous.MoveHistory
		state.TotalMoves = previous.TotalMoves

		if entrance := entranceTo(state, previous.CurrentLevel); entrance != nil {
			for _, obj := range state.Objects {
				if obj.Player {
					obj.Position = entrance.Position
				}
			}
		}
	}

	e.state = state
}

// entranceTo finds an entrance leading to the given level.
func entranceTo(state *GameState, level uint16) *Object {
	for _, obj := range state.Objects {
		if obj.Entrance && obj.Level == level {
			return obj
		}
	}
	return nil
}

// MovePlayer resolves an input-driven move for the player. The outcome
// is one of nil, ErrEdgeCollision, ErrObjectCollision, or
// ErrMovementBlocked; all are ordinary results.
func (e *GameEngine) MovePlayer(direction Direction) error {
	if e.paused {
		return fmt.Errorf("engine is paused")
	}
	return e.state.MovePlayer(direction)
}

// CanMovePlayer reports whether a move in the direction would succeed,
// without mutating anything.
func (e *GameEngine) CanMovePlayer(direction Direction) bool {
	if e.state.PlayerObject() == nil {
		return false
	}
	return e.state.Clone().MovePlayer(direction) == nil
}

// PossibleMoves returns all directions the player can currently move in.
func (e *GameEngine) PossibleMoves() []Direction {
	var possible []Direction
	for _, direction := range Directions {
		if e.CanMovePlayer(direction) {
			possible = append(possible, direction)
		}
	}
	return possible
}

// Tick advances the simulation by the elapsed wall time, running the
// periodic behaviors in dependency order: forced and autonomous movement
// first; contact checks (deadly, explosive, liquid) on the fresh
// positions; then push-transforms and trigger counting; then key, paint,
// and teleporter resolution; volatile expiry and derived events last.
// The applied derived events are returned. A paused engine ticks as a
// no-op.
func (e *GameEngine) Tick(elapsed time.Duration) []Event {
	if e.paused || e.state == nil {
		return nil
	}

	s := e.state
	s.beginTick()

	// The already-moved set is cleared exactly once per tick, before any
	// forcing behavior runs.
	if e.transporterTimer.tick(elapsed) {
		already := make(map[int]bool)
		s.checkForSlipperyAndTransporter(already)
	}
	if e.movementTimer.tick(elapsed) {
		s.moveMovables()
	}
	armVolatile := s.applyEvents()

	s.checkForDeadly()
	s.checkForExplosive()
	s.checkForLiquid()
	armVolatile = s.applyEvents() || armVolatile

	s.checkForTransformOnPush()
	s.checkForTriggers()
	armVolatile = s.applyEvents() || armVolatile

	s.checkForFinishedLevels()
	s.checkForKey()
	s.checkForPaint()
	s.checkForTeleporter()
	s.checkForExitAndEntrance()
	armVolatile = s.applyEvents() || armVolatile

	if armVolatile && e.volatileTimer.finished() {
		e.volatileTimer.reset()
	}
	if e.volatileTimer.tick(elapsed) {
		s.despawnVolatiles()
		if s.applyEvents() {
			e.volatileTimer.reset()
		}
	}

	events := s.DrainEvents()

	if s.NextLevel != nil {
		next := *s.NextLevel
		s.NextLevel = nil
		// Leaving through an entrance keeps the departing level's state;
		// finishing a level reloads it pristine for replays.
		for _, event := range events {
			if event.Kind == EventEnterLevel {
				e.saveCurrentLevel()
				break
			}
		}
		e.LoadLevel(next)
	}

	return events
}

// saveCurrentLevel snapshots the live arena back into the in-memory
// level set.
func (e *GameEngine) saveCurrentLevel() {
	if e.savedLevels == nil {
		e.savedLevels = make(map[uint16]string)
	}
	e.savedLevels[e.state.CurrentLevel] = e.state.ToLevel().Save()
}

// Pause suspends all periodic behaviors and player movement, e.g. while
// a menu or the editor is open.
func (e *GameEngine) Pause() {
	e.paused = true
}

// Resume re-enables the simulation.
func (e *GameEngine) Resume() {
	e.paused = false
}

// IsPaused reports whether the simulation is suspended.
func (e *GameEngine) IsPaused() bool {
	return e.paused
}

// GetConfig returns the current configuration.
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig installs a new configuration and reloads its start level.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.state = nil
	e.savedLevels = nil
	e.initTimers()
	e.LoadLevel(config.StartLevel)
	return nil
}

// GetMoveHistory returns the cumulative move history.
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the most recent move, or nil if none were made.
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	history := e.state.MoveHistory
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}

// ObjectsAt returns the objects at the given cell.
func (e *GameEngine) ObjectsAt(p Position) []*Object {
	return e.state.ObjectsAt(p)
}

// SaveLevelText serializes the current arena back into level text.
func (e *GameEngine) SaveLevelText() string {
	return e.state.ToLevel().Save()
}

// ticker is a fixed-period timer advanced by elapsed wall time.
type ticker struct {
	interval time.Duration
	elapsed  time.Duration
	repeat   bool
	stopped  bool
}

func newTicker(interval time.Duration, repeat bool) ticker {
	return ticker{interval: interval, repeat: repeat}
}

// tick advances the timer and reports whether it just fired.
func (t *ticker) tick(elapsed time.Duration) bool {
	if t.stopped || t.interval <= 0 {
		return false
	}
	t.elapsed += elapsed
	if t.elapsed < t.interval {
		return false
	}
	if t.repeat {
		t.elapsed %= t.interval
	} else {
		t.stopped = true
	}
	return true
}

func (t *ticker) reset() {
	t.elapsed = 0
	t.stopped = false
}

func (t *ticker) stop() {
	t.stopped = true
}

func (t *ticker) finished() bool {
	return t.stopped
}
